package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vladiate/internal/domain"
	"vladiate/internal/runner"
	"vladiate/internal/validator"
	"vladiate/internal/vlad"
	"vladiate/internal/vladfile"
)

const doc = `
vlads:
  Vampires:
    source: {type: string, content: "Column A,Column B\nx,Vampire\ny,Not A Vampire\n"}
    validators:
      Column A: [{rule: unique}]
      Column B: [{rule: set, values: [Vampire, Not A Vampire]}]
  Ghouls:
    source: {type: string, content: "Column A,Column B\nx,Vampire\nx,Ghoul\n"}
    validators:
      Column A: [{rule: unique}]
      Column B: [{rule: set, values: [Vampire, Not A Vampire]}]
  Bats:
    source: {type: string, content: "Name\nbat\n"}
    validators:
      Name: [{rule: not_empty}]
`

type syncReporter struct {
	mu    sync.Mutex
	names []string
}

func (r *syncReporter) Report(res *vlad.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, res.Name)
}

func loadDoc(t *testing.T, content string) *vladfile.File {
	t.Helper()
	f, err := vladfile.Parse([]byte(content))
	require.NoError(t, err)
	return f
}

func TestSelect(t *testing.T) {
	f := loadDoc(t, doc)

	names, err := runner.Select(f, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bats", "Ghouls", "Vampires"}, names)

	names, err = runner.Select(f, []string{"Vampires", "Bats", "Vampires"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Vampires", "Bats"}, names)

	_, err = runner.Select(f, []string{"Vampires", "Zombies", "Mummies"})
	assert.ErrorIs(t, err, domain.ErrUnknownVlad)
	assert.ErrorContains(t, err, "Mummies, Zombies")
}

func TestRun_Sequential(t *testing.T) {
	f := loadDoc(t, doc)
	rep := &syncReporter{}

	summary, err := runner.Run(context.Background(), f, nil, runner.Options{
		Deps: vladfile.Deps{Reporter: rep},
	})
	require.NoError(t, err)

	assert.False(t, summary.Passed)
	require.Len(t, summary.Results, 3)
	assert.Equal(t, "Bats", summary.Results[0].Name)
	assert.Equal(t, []string{"Ghouls"}, summary.Failed())
	assert.Equal(t, []string{"Bats", "Ghouls", "Vampires"}, rep.names)
}

func TestRun_Parallel(t *testing.T) {
	f := loadDoc(t, doc)
	rep := &syncReporter{}

	summary, err := runner.Run(context.Background(), f, nil, runner.Options{
		Processes: 3,
		Deps:      vladfile.Deps{Reporter: rep},
	})
	require.NoError(t, err)

	require.Len(t, summary.Results, 3)
	assert.Equal(t, []string{"Bats", "Ghouls", "Vampires"}, []string{
		summary.Results[0].Name, summary.Results[1].Name, summary.Results[2].Name,
	}, "results keep selection order")
	assert.ElementsMatch(t, []string{"Bats", "Ghouls", "Vampires"}, rep.names)
	assert.False(t, summary.Passed)
}

func TestRun_Selected(t *testing.T) {
	f := loadDoc(t, doc)

	summary, err := runner.Run(context.Background(), f, []string{"Vampires"}, runner.Options{})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.True(t, summary.Passed)
	assert.Empty(t, summary.Failed())
}

func TestRun_UnknownVlad(t *testing.T) {
	f := loadDoc(t, doc)

	_, err := runner.Run(context.Background(), f, []string{"Zombies"}, runner.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownVlad)
}

func TestRun_BadValidator(t *testing.T) {
	f := loadDoc(t, `
vlads:
  Broken:
    source: {type: string, content: "a\n1\n"}
    validators:
      a: [{rule: unique, unique_with: [b]}]
`)

	for _, processes := range []int{1, 2} {
		_, err := runner.Run(context.Background(), f, nil, runner.Options{Processes: processes})
		var bad *validator.BadValidatorError
		assert.True(t, errors.As(err, &bad), "processes=%d", processes)
	}
}
