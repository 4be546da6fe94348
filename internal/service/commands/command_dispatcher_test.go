package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	"github.com/mamadbah2/dinopark/internal/domain/park"
	"github.com/mamadbah2/dinopark/internal/service/keeper"
	"github.com/mamadbah2/dinopark/internal/service/reporting"
)

type fakeRoster struct {
	appended []*models.Dinosaur
	err      error
}

func (f *fakeRoster) Append(_ context.Context, d *models.Dinosaur) error {
	f.appended = append(f.appended, d)
	return f.err
}

func newDispatcher(roster RosterWriter) (*Service, *keeper.Keeper) {
	k := keeper.New(park.New("Isla Nublar", 250), nil)
	return NewService(k, reporting.NewService(k, nil, nil), roster, nil), k
}

func run(t *testing.T, svc *Service, message string) (string, error) {
	t.Helper()
	return svc.HandleCommand(context.Background(), models.ParseCommand(message), "224600000000")
}

func stock(t *testing.T, svc *Service) {
	t.Helper()
	for _, msg := range []string{
		"/add T Rex carnivore 300",
		"/add Mimeosaur herbivore 100",
		"/add Herbisaur herbivore 50",
		"/add Stegosaur omnivore 150",
		"/add Mimeosaur herbivore 90",
	} {
		_, err := run(t, svc, msg)
		require.NoError(t, err)
	}
}

func TestHandleCommand_Add(t *testing.T) {
	roster := &fakeRoster{}
	svc, k := newDispatcher(roster)

	reply, err := run(t, svc, "/add T Rex carnivore 300")
	require.NoError(t, err)
	assert.Equal(t, "Added T Rex (carnivore, 300.00 visitors/day).", reply)

	got := k.Dinosaurs()
	require.Len(t, got, 1)
	assert.Equal(t, "T Rex", got[0].Species())
	require.Len(t, roster.appended, 1)
	assert.Same(t, got[0], roster.appended[0])
}

func TestHandleCommand_AddRosterFailureStillAdds(t *testing.T) {
	svc, k := newDispatcher(&fakeRoster{err: errors.New("sheet offline")})

	_, err := run(t, svc, "/add Raptor carnivore 200")
	require.NoError(t, err)
	assert.Equal(t, 1, k.Len())
}

func TestHandleCommand_AddInvalid(t *testing.T) {
	svc, k := newDispatcher(nil)

	for _, msg := range []string{"/add", "/add carnivore 300", "/add Raptor carnivore lots", "/add Raptor carnivore -4",
		"/add Ghost herbivore NaN", "/add Ghost herbivore Inf", "/add Ghost herbivore -Inf"} {
		_, err := run(t, svc, msg)
		assert.ErrorIs(t, err, ErrInvalidArguments, msg)
	}
	assert.Zero(t, k.Len())
}

func TestHandleCommand_RemoveAndFind(t *testing.T) {
	svc, k := newDispatcher(nil)
	stock(t, svc)

	reply, err := run(t, svc, "/find Mimeosaur")
	require.NoError(t, err)
	assert.Equal(t, "Mimeosaur: 2 found\n1. Mimeosaur (herbivore, 100.00 visitors/day)\n2. Mimeosaur (herbivore, 90.00 visitors/day)", reply)

	reply, err = run(t, svc, "/remove Mimeosaur")
	require.NoError(t, err)
	assert.Equal(t, "Removed 2 Mimeosaur.", reply)

	species := make([]string, 0, k.Len())
	for _, d := range k.Dinosaurs() {
		species = append(species, d.Species())
	}
	assert.Equal(t, []string{"T Rex", "Herbisaur", "Stegosaur"}, species)

	reply, err = run(t, svc, "/find Mimeosaur")
	require.NoError(t, err)
	assert.Equal(t, "No Mimeosaur in the park.", reply)
}

func TestHandleCommand_MultiWordSpecies(t *testing.T) {
	svc, _ := newDispatcher(nil)
	stock(t, svc)

	reply, err := run(t, svc, "/find T Rex")
	require.NoError(t, err)
	assert.Contains(t, reply, "T Rex: 1 found")

	_, err = run(t, svc, "/remove")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestHandleCommand_Top(t *testing.T) {
	svc, _ := newDispatcher(nil)

	reply, err := run(t, svc, "/top")
	require.NoError(t, err)
	assert.Equal(t, "No dinosaurs in the park yet.", reply)

	stock(t, svc)
	reply, err = run(t, svc, "/top")
	require.NoError(t, err)
	assert.Equal(t, "Star attraction: T Rex (carnivore, 300.00 visitors/day).", reply)
}

func TestHandleCommand_StatsAndDiets(t *testing.T) {
	svc, _ := newDispatcher(nil)
	stock(t, svc)

	reply, err := run(t, svc, "/stats")
	require.NoError(t, err)
	assert.Contains(t, reply, "Visitors per day: 690.00")
	assert.Contains(t, reply, "Visitors per year: 252022.50")
	assert.Contains(t, reply, "Revenue per year: 63005625.00")

	reply, err = run(t, svc, "/diets")
	require.NoError(t, err)
	assert.Equal(t, "Diets: carnivore 1, herbivore 3, omnivore 1", reply)
}

func TestHandleCommand_Unsupported(t *testing.T) {
	svc, _ := newDispatcher(nil)

	_, err := run(t, svc, "/feed 3 bags")
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}
