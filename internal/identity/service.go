package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pastoralbatismo/paroquia/internal/repo"
)

// Store isola o acesso a membros necessário à resolução de identidade.
type Store interface {
	Get(ctx context.Context, id string) (repo.Usuario, error)
	Provisionar(ctx context.Context, id, nome, email string) (repo.Usuario, error)
}

// Service resolve o cabeçalho Authorization em um membro local.
type Service struct {
	provider Provider
	membros  Store
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewService(provider Provider, membros Store, cache *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{provider: provider, membros: membros, cache: cache, cacheTTL: cacheTTL}
}

// Resolve devolve o membro autenticado, nil quando não há token e
// ErrTokenInvalido quando a verificação falha. O primeiro acesso com um id
// externo novo provisiona o membro com papel MEMBER; o upsert por chave torna
// a operação segura para todo request.
func (s *Service) Resolve(ctx context.Context, authorization string) (*repo.Usuario, error) {
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, nil
	}
	token := strings.TrimSpace(parts[1])

	if id, ok := s.cachedSubject(ctx, token); ok {
		u, err := s.membros.Get(ctx, id)
		if err == nil {
			return &u, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
	}

	externalID, err := s.provider.Verify(ctx, token)
	if err != nil {
		return nil, ErrTokenInvalido
	}

	u, err := s.membros.Get(ctx, externalID)
	if err == nil {
		s.cacheSubject(ctx, token, externalID)
		return &u, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	perfil, err := s.provider.Profile(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenInvalido) {
			return nil, ErrTokenInvalido
		}
		return nil, err
	}

	criado, err := s.membros.Provisionar(ctx, externalID, perfil.Nome, perfil.Email)
	if err != nil {
		return nil, err
	}

	s.cacheSubject(ctx, token, externalID)
	return &criado, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity:token:" + hex.EncodeToString(sum[:])
}

func (s *Service) cachedSubject(ctx context.Context, token string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	id, err := s.cache.Get(ctx, cacheKey(token)).Result()
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (s *Service) cacheSubject(ctx context.Context, token, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, cacheKey(token), id, s.cacheTTL).Err()
}
