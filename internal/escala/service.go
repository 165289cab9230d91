package escala

import (
	"context"
	"errors"
	"strings"

	"github.com/pastoralbatismo/paroquia/internal/repo"
)

var (
	// ErrJaEscalado indica que o membro já está na equipe do batismo.
	ErrJaEscalado = errors.New("membro já escalado para este batismo")
	// ErrStatusInvalido indica status fora do enum de presença.
	ErrStatusInvalido = errors.New("status de presença inválido")
	// ErrTransicaoInvalida indica mudança direta entre estados finais;
	// é preciso reabrir para pendente antes.
	ErrTransicaoInvalida = errors.New("transição de presença inválida")
	// ErrSomenteGestores indica reabertura tentada por quem não administra a escala.
	ErrSomenteGestores = errors.New("somente administração ou secretaria podem reabrir presença")
	// ErrNaoAutorizado indica confirmação de presença de terceiros.
	ErrNaoAutorizado = errors.New("presença só pode ser alterada pelo próprio escalado ou pela gestão")
	// ErrFuncaoObrigatoria indica escalação sem função definida.
	ErrFuncaoObrigatoria = errors.New("função na celebração é obrigatória")
)

// Store isola a persistência consumida pelo serviço de escala.
type Store interface {
	Get(ctx context.Context, id int64) (Escala, error)
	Criar(ctx context.Context, batismoID int64, usuarioID, funcao string) (Escala, error)
	Excluir(ctx context.Context, id int64) error
	AtualizarStatus(ctx context.Context, id int64, status string) (Escala, error)
	ListPorBatismo(ctx context.Context, batismoID int64) ([]Detalhe, error)
}

// Service aplica as regras de presença sobre a escala. A tabela de transições
// vale para qualquer chamador da API, não apenas para a interface.
type Service struct {
	escalas Store
}

func NewService(escalas Store) *Service {
	return &Service{escalas: escalas}
}

// Escalar adiciona um membro à equipe da celebração em estado pendente.
func (s *Service) Escalar(ctx context.Context, batismoID int64, usuarioID, funcao string) (Escala, error) {
	funcao = strings.TrimSpace(funcao)
	if funcao == "" {
		return Escala{}, ErrFuncaoObrigatoria
	}
	if strings.TrimSpace(usuarioID) == "" {
		return Escala{}, repo.ErrNotFound
	}
	return s.escalas.Criar(ctx, batismoID, usuarioID, funcao)
}

// Remover tira o membro da equipe. Exclusão direta, sem histórico.
func (s *Service) Remover(ctx context.Context, id int64) error {
	return s.escalas.Excluir(ctx, id)
}

// ListarPorBatismo devolve a equipe escalada com dados de exibição.
func (s *Service) ListarPorBatismo(ctx context.Context, batismoID int64) ([]Detalhe, error) {
	return s.escalas.ListPorBatismo(ctx, batismoID)
}

// AtualizarPresenca aplica a transição pedida pelo ator:
//
//	pendente → confirmado|ausente: o próprio escalado ou a gestão
//	confirmado|ausente → pendente: somente a gestão (reabertura)
//	confirmado ↔ ausente: nunca direto; reabrir primeiro
func (s *Service) AtualizarPresenca(ctx context.Context, id int64, status string, actor *repo.Usuario) (Escala, error) {
	if actor == nil {
		return Escala{}, ErrNaoAutorizado
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if !StatusValido(status) {
		return Escala{}, ErrStatusInvalido
	}

	atual, err := s.escalas.Get(ctx, id)
	if err != nil {
		return Escala{}, err
	}

	// A autorização vem antes da checagem de idempotência: terceiro
	// repetindo o status vigente recebe a mesma negativa de sempre.
	if !actor.Gestor() && actor.ID != atual.UsuarioID {
		return Escala{}, ErrNaoAutorizado
	}

	if atual.Status == status {
		return atual, nil
	}

	if status == StatusPendente {
		if !actor.Gestor() {
			return Escala{}, ErrSomenteGestores
		}
		return s.escalas.AtualizarStatus(ctx, id, status)
	}

	if atual.Status != StatusPendente {
		return Escala{}, ErrTransicaoInvalida
	}

	return s.escalas.AtualizarStatus(ctx, id, status)
}
