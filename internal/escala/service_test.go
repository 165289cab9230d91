package escala

import (
	"context"
	"errors"
	"testing"

	"github.com/pastoralbatismo/paroquia/internal/repo"
)

type stubStore struct {
	escalas map[int64]Escala
	proxima int64
}

func newStubStore() *stubStore {
	return &stubStore{escalas: map[int64]Escala{}, proxima: 1}
}

func (s *stubStore) Get(ctx context.Context, id int64) (Escala, error) {
	e, ok := s.escalas[id]
	if !ok {
		return Escala{}, repo.ErrNotFound
	}
	return e, nil
}

func (s *stubStore) Criar(ctx context.Context, batismoID int64, usuarioID, funcao string) (Escala, error) {
	for _, e := range s.escalas {
		if e.BatismoID == batismoID && e.UsuarioID == usuarioID {
			return Escala{}, ErrJaEscalado
		}
	}
	e := Escala{ID: s.proxima, BatismoID: batismoID, UsuarioID: usuarioID, Funcao: funcao, Status: StatusPendente}
	s.escalas[e.ID] = e
	s.proxima++
	return e, nil
}

func (s *stubStore) Excluir(ctx context.Context, id int64) error {
	if _, ok := s.escalas[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.escalas, id)
	return nil
}

func (s *stubStore) AtualizarStatus(ctx context.Context, id int64, status string) (Escala, error) {
	e, ok := s.escalas[id]
	if !ok {
		return Escala{}, repo.ErrNotFound
	}
	e.Status = status
	s.escalas[id] = e
	return e, nil
}

func (s *stubStore) ListPorBatismo(ctx context.Context, batismoID int64) ([]Detalhe, error) {
	var detalhes []Detalhe
	for _, e := range s.escalas {
		if e.BatismoID == batismoID {
			detalhes = append(detalhes, Detalhe{Escala: e, UsuarioNome: e.UsuarioID})
		}
	}
	return detalhes, nil
}

var (
	admin      = &repo.Usuario{ID: "adm-1", Papel: repo.PapelAdmin}
	secretaria = &repo.Usuario{ID: "sec-1", Papel: repo.PapelSecretaria}
	celebrante = &repo.Usuario{ID: "cel-1", Papel: repo.PapelCelebrante}
	membro     = &repo.Usuario{ID: "mem-1", Papel: repo.PapelMembro}
)

func escalaComStatus(t *testing.T, svc *Service, store *stubStore, status string) Escala {
	t.Helper()
	e, err := svc.Escalar(context.Background(), 10, celebrante.ID, "Celebrante")
	if err != nil {
		t.Fatalf("escalar: %v", err)
	}
	if status != StatusPendente {
		var errStatus error
		e, errStatus = store.AtualizarStatus(context.Background(), e.ID, status)
		if errStatus != nil {
			t.Fatalf("preparar status: %v", errStatus)
		}
	}
	return e
}

func TestEscalarDuplicado(t *testing.T) {
	store := newStubStore()
	svc := NewService(store)

	if _, err := svc.Escalar(context.Background(), 10, celebrante.ID, "Celebrante"); err != nil {
		t.Fatalf("primeira escalação: %v", err)
	}
	_, err := svc.Escalar(context.Background(), 10, celebrante.ID, "Equipe")
	if !errors.Is(err, ErrJaEscalado) {
		t.Fatalf("esperava ErrJaEscalado, obteve %v", err)
	}
}

func TestEscalarSemFuncao(t *testing.T) {
	svc := NewService(newStubStore())
	_, err := svc.Escalar(context.Background(), 10, celebrante.ID, "  ")
	if !errors.Is(err, ErrFuncaoObrigatoria) {
		t.Fatalf("esperava ErrFuncaoObrigatoria, obteve %v", err)
	}
}

func TestAtualizarPresencaStatusInvalido(t *testing.T) {
	store := newStubStore()
	svc := NewService(store)
	e := escalaComStatus(t, svc, store, StatusPendente)

	_, err := svc.AtualizarPresenca(context.Background(), e.ID, "presente", admin)
	if !errors.Is(err, ErrStatusInvalido) {
		t.Fatalf("esperava ErrStatusInvalido, obteve %v", err)
	}
}

func TestAtualizarPresencaInexistente(t *testing.T) {
	svc := NewService(newStubStore())
	_, err := svc.AtualizarPresenca(context.Background(), 999, StatusConfirmado, admin)
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("esperava ErrNotFound, obteve %v", err)
	}
}

func TestTransicoesDePresenca(t *testing.T) {
	cases := []struct {
		name    string
		inicial string
		novo    string
		actor   *repo.Usuario
		wantErr error
	}{
		{"escalado confirma", StatusPendente, StatusConfirmado, celebrante, nil},
		{"escalado marca ausência", StatusPendente, StatusAusente, celebrante, nil},
		{"secretaria confirma por ele", StatusPendente, StatusConfirmado, secretaria, nil},
		{"terceiro não confirma", StatusPendente, StatusConfirmado, membro, ErrNaoAutorizado},
		{"escalado não reabre", StatusConfirmado, StatusPendente, celebrante, ErrSomenteGestores},
		{"admin reabre confirmado", StatusConfirmado, StatusPendente, admin, nil},
		{"secretaria reabre ausente", StatusAusente, StatusPendente, secretaria, nil},
		{"confirmado não vira ausente direto", StatusConfirmado, StatusAusente, admin, ErrTransicaoInvalida},
		{"ausente não vira confirmado direto", StatusAusente, StatusConfirmado, admin, ErrTransicaoInvalida},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			svc := NewService(store)
			e := escalaComStatus(t, svc, store, tc.inicial)

			atualizado, err := svc.AtualizarPresenca(context.Background(), e.ID, tc.novo, tc.actor)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("esperava %v, obteve %v", tc.wantErr, err)
				}
				persistido, _ := store.Get(context.Background(), e.ID)
				if persistido.Status != tc.inicial {
					t.Fatalf("status não deveria mudar, obteve %s", persistido.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("erro inesperado: %v", err)
			}
			if atualizado.Status != tc.novo {
				t.Fatalf("esperava status %s, obteve %s", tc.novo, atualizado.Status)
			}
		})
	}
}

func TestAtualizarPresencaIdempotente(t *testing.T) {
	store := newStubStore()
	svc := NewService(store)
	e := escalaComStatus(t, svc, store, StatusConfirmado)

	atualizado, err := svc.AtualizarPresenca(context.Background(), e.ID, StatusConfirmado, celebrante)
	if err != nil {
		t.Fatalf("repetição do mesmo status não deveria falhar: %v", err)
	}
	if atualizado.Status != StatusConfirmado {
		t.Fatalf("esperava confirmado, obteve %s", atualizado.Status)
	}
}

func TestAtualizarPresencaMesmoStatusPorTerceiro(t *testing.T) {
	store := newStubStore()
	svc := NewService(store)
	e := escalaComStatus(t, svc, store, StatusConfirmado)

	_, err := svc.AtualizarPresenca(context.Background(), e.ID, StatusConfirmado, membro)
	if !errors.Is(err, ErrNaoAutorizado) {
		t.Fatalf("terceiro deveria ser negado mesmo sem mudança, obteve %v", err)
	}
}

func TestAtualizarPresencaSemAtor(t *testing.T) {
	store := newStubStore()
	svc := NewService(store)
	e := escalaComStatus(t, svc, store, StatusPendente)

	_, err := svc.AtualizarPresenca(context.Background(), e.ID, StatusConfirmado, nil)
	if !errors.Is(err, ErrNaoAutorizado) {
		t.Fatalf("esperava ErrNaoAutorizado, obteve %v", err)
	}
}
