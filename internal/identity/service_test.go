package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pastoralbatismo/paroquia/internal/repo"
)

type stubProvider struct {
	subject      string
	verifyErr    error
	verifyCalls  int
	profileCalls int
}

func (p *stubProvider) Verify(ctx context.Context, token string) (string, error) {
	p.verifyCalls++
	if p.verifyErr != nil {
		return "", p.verifyErr
	}
	return p.subject, nil
}

func (p *stubProvider) Profile(ctx context.Context, token string) (Perfil, error) {
	p.profileCalls++
	return Perfil{ID: p.subject, Nome: "Maria das Dores", Email: "maria@paroquia.org"}, nil
}

type stubStore struct {
	usuarios   map[string]repo.Usuario
	provisions int
}

func newStubStore() *stubStore {
	return &stubStore{usuarios: map[string]repo.Usuario{}}
}

func (s *stubStore) Get(ctx context.Context, id string) (repo.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubStore) Provisionar(ctx context.Context, id, nome, email string) (repo.Usuario, error) {
	s.provisions++
	u, ok := s.usuarios[id]
	if ok {
		u.Email = email
		s.usuarios[id] = u
		return u, nil
	}
	u = repo.Usuario{ID: id, Papel: repo.PapelMembro, Nome: nome, Email: email, Ativo: true}
	s.usuarios[id] = u
	return u, nil
}

func TestResolveSemToken(t *testing.T) {
	svc := NewService(&stubProvider{}, newStubStore(), nil, time.Minute)

	for _, header := range []string{"", "Basic abc", "Bearer ", "token-solto"} {
		u, err := svc.Resolve(context.Background(), header)
		if err != nil {
			t.Fatalf("header %q: erro inesperado %v", header, err)
		}
		if u != nil {
			t.Fatalf("header %q: esperava usuário nulo", header)
		}
	}
}

func TestResolveTokenInvalido(t *testing.T) {
	provider := &stubProvider{verifyErr: ErrTokenInvalido}
	svc := NewService(provider, newStubStore(), nil, time.Minute)

	_, err := svc.Resolve(context.Background(), "Bearer qualquer")
	if !errors.Is(err, ErrTokenInvalido) {
		t.Fatalf("esperava ErrTokenInvalido, obteve %v", err)
	}
}

func TestResolveProvisionaUmaVez(t *testing.T) {
	provider := &stubProvider{subject: "ext-123"}
	store := newStubStore()
	svc := NewService(provider, store, nil, time.Minute)

	primeiro, err := svc.Resolve(context.Background(), "Bearer tok")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if primeiro == nil || primeiro.ID != "ext-123" {
		t.Fatalf("usuário inesperado: %+v", primeiro)
	}
	if primeiro.Papel != repo.PapelMembro {
		t.Fatalf("papel default deveria ser MEMBER, obteve %s", primeiro.Papel)
	}

	segundo, err := svc.Resolve(context.Background(), "Bearer tok")
	if err != nil {
		t.Fatalf("resolve repetido: %v", err)
	}
	if segundo.ID != primeiro.ID {
		t.Fatal("resolve repetido divergiu de usuário")
	}
	if store.provisions != 1 {
		t.Fatalf("esperava 1 provisionamento, obteve %d", store.provisions)
	}
	if len(store.usuarios) != 1 {
		t.Fatalf("esperava 1 linha de usuário, obteve %d", len(store.usuarios))
	}
	if provider.profileCalls != 1 {
		t.Fatalf("perfil só deveria ser buscado no provisionamento, obteve %d chamadas", provider.profileCalls)
	}
}

func TestResolveUsaCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	provider := &stubProvider{subject: "ext-456"}
	store := newStubStore()
	svc := NewService(provider, store, cache, time.Minute)

	if _, err := svc.Resolve(context.Background(), "Bearer tok"); err != nil {
		t.Fatalf("primeiro resolve: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "Bearer tok"); err != nil {
		t.Fatalf("segundo resolve: %v", err)
	}

	if provider.verifyCalls != 1 {
		t.Fatalf("cache deveria evitar nova verificação, obteve %d chamadas", provider.verifyCalls)
	}
}
