package habit

import "sync"

// habitLocks は習慣IDごとの排他ロックを管理する。
// 同一習慣への並行トグル（完了集合のread-modify-writeとストリーク再計算）を
// 直列化し、lost-updateを防ぐ。読み取り系の操作はロックを取らない。
type habitLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newHabitLocks() *habitLocks {
	return &habitLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// get は指定習慣IDのロックを返す。未登録の場合は生成する。
func (l *habitLocks) get(habitID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[habitID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[habitID] = lock
	}
	return lock
}

// release は指定習慣IDのロックエントリを破棄する。習慣削除時に呼ぶ。
func (l *habitLocks) release(habitID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, habitID)
}
