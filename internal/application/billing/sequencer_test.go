package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

func TestSequencer_PeekNext(t *testing.T) {
	store := new(mockSequenceStore)
	store.On("LoadSequence", mock.Anything).Return(entity.SequenceState{Quote: 5, Invoice: 41}, nil)
	seq := billing.NewSequencer(store, zerolog.Nop())

	q, err := seq.PeekNext(context.Background(), entity.KindQuote)
	require.NoError(t, err)
	assert.Equal(t, "Q000006", q)

	i, err := seq.PeekNext(context.Background(), entity.KindInvoice)
	require.NoError(t, err)
	assert.Equal(t, "I000042", i)

	// Consultar no modifica el estado.
	again, err := seq.PeekNext(context.Background(), entity.KindQuote)
	require.NoError(t, err)
	assert.Equal(t, q, again)
	store.AssertNotCalled(t, "AdvanceSequence", mock.Anything, mock.Anything, mock.Anything)
}

func TestSequencer_PeekNext_TipoInvalido(t *testing.T) {
	seq := billing.NewSequencer(new(mockSequenceStore), zerolog.Nop())
	_, err := seq.PeekNext(context.Background(), entity.Kind("receipt"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSequencer_Commit_AvanzaSoloSiEsMayor(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		numero  string
		advance bool
	}{
		{"mayor avanza", 5, "Q000010", true},
		{"siguiente avanza", 5, "Q000006", true},
		{"igual no avanza", 10, "Q000010", false},
		{"menor no avanza", 10, "Q000005", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockSequenceStore)
			store.On("LoadSequence", mock.Anything).Return(entity.SequenceState{Quote: tt.current}, nil)
			if tt.advance {
				store.On("AdvanceSequence", mock.Anything, entity.KindQuote, mock.AnythingOfType("int64")).Return(nil)
			}
			seq := billing.NewSequencer(store, zerolog.Nop())

			require.NoError(t, seq.Commit(context.Background(), entity.KindQuote, tt.numero))
			if tt.advance {
				store.AssertCalled(t, "AdvanceSequence", mock.Anything, entity.KindQuote, mock.AnythingOfType("int64"))
			} else {
				store.AssertNotCalled(t, "AdvanceSequence", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestSequencer_Commit_DiezLuegoCincoSigueEnDiez(t *testing.T) {
	store := newMemSettings()
	seq := billing.NewSequencer(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, seq.Commit(ctx, entity.KindInvoice, "I000010"))
	require.NoError(t, seq.Commit(ctx, entity.KindInvoice, "I000005"))

	state, err := store.LoadSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), state.Invoice)
	assert.Equal(t, int64(0), state.Quote)

	next, err := seq.PeekNext(ctx, entity.KindInvoice)
	require.NoError(t, err)
	assert.Equal(t, "I000011", next)
}

func TestSequencer_Commit_MalFormado(t *testing.T) {
	for _, numero := range []string{"", "Q42", "I000010", "Q0000100", "q000010", "Q00001a"} {
		t.Run(numero, func(t *testing.T) {
			store := new(mockSequenceStore)
			seq := billing.NewSequencer(store, zerolog.Nop())

			err := seq.Commit(context.Background(), entity.KindQuote, numero)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSequencerInconsistency)
			store.AssertNotCalled(t, "AdvanceSequence", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSequencer_Commit_ErrorDelAlmacen(t *testing.T) {
	boom := errors.New("disco lleno")
	store := new(mockSequenceStore)
	store.On("LoadSequence", mock.Anything).Return(entity.SequenceState{}, nil)
	store.On("AdvanceSequence", mock.Anything, entity.KindQuote, int64(1)).Return(boom)
	seq := billing.NewSequencer(store, zerolog.Nop())

	err := seq.Commit(context.Background(), entity.KindQuote, "Q000001")
	assert.ErrorIs(t, err, boom)
}
