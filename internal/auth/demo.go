// Package auth はユーザー識別を提供する。
// 現状の認証は単一のデモユーザーへのスタブであり、
// 初回アクセス時にデモユーザーをfind-or-createして以降キャッシュする。
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/habitflow/internal/model"
	"github.com/hitoshi/habitflow/internal/repository"
)

// DemoUserProvider はデモユーザーの解決を行うアイデンティティプロバイダ。
type DemoUserProvider struct {
	userRepo repository.UserRepository
	email    string

	mu     sync.Mutex
	cached *model.User
}

// NewDemoUserProvider はDemoUserProviderを生成する。
// emailはデモユーザーの識別キーとなるメールアドレス。
func NewDemoUserProvider(userRepo repository.UserRepository, email string) *DemoUserProvider {
	return &DemoUserProvider{
		userRepo: userRepo,
		email:    email,
	}
}

// ResolveUser はデモユーザーを取得する。存在しない場合は作成する。
// 解決結果はプロセス内にキャッシュされる。
func (p *DemoUserProvider) ResolveUser(ctx context.Context) (*model.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return p.cached, nil
	}

	user, err := p.userRepo.FindByEmail(ctx, p.email)
	if err != nil {
		return nil, fmt.Errorf("デモユーザーの取得に失敗しました: %w", err)
	}

	if user == nil {
		now := time.Now()
		user = &model.User{
			ID:        uuid.NewString(),
			FirstName: "Usuário",
			LastName:  "Demo",
			Email:     p.email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := p.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("デモユーザーの作成に失敗しました: %w", err)
		}
	}

	p.cached = user
	return user, nil
}

// ResolveUserID はデモユーザーのIDを返す。middleware.UserResolverを満たす。
func (p *DemoUserProvider) ResolveUserID(ctx context.Context) (string, error) {
	user, err := p.ResolveUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
