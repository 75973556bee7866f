package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridefantasy/roster-engine/internal/builder"
	"github.com/stridefantasy/roster-engine/internal/repository"
	"github.com/stridefantasy/roster-engine/internal/roster"
	"github.com/stridefantasy/roster-engine/internal/session"
)

func writePool(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadPool(t *testing.T) {
	path := writePool(t, `
athletes:
  - id: 1
    name: Kiptum
    gender: men
    salary: 9000
    rank: 1
  - id: 2
    name: Kipyegon
    gender: women
    salary: 8500
    rank: 2
`)

	pool, err := LoadPool(path)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "Kiptum", pool[0].Name)
	assert.Equal(t, roster.GenderWomen, pool[1].Gender)
	assert.Equal(t, 2, pool[1].Rank)
}

func TestLoadPool_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "not yaml",
			contents: "{{{",
			wantErr:  "parse pool file",
		},
		{
			name:     "empty pool",
			contents: "athletes: []",
			wantErr:  "no athletes",
		},
		{
			name: "missing id",
			contents: `
athletes:
  - name: Nameless
    gender: men
    salary: 100
`,
			wantErr: `athlete "Nameless" has no id`,
		},
		{
			name: "duplicate id",
			contents: `
athletes:
  - {id: 7, name: A, gender: men, salary: 100}
  - {id: 7, name: B, gender: women, salary: 100}
`,
			wantErr: "duplicate athlete id 7",
		},
		{
			name: "unknown gender",
			contents: `
athletes:
  - {id: 1, name: A, gender: mixed, salary: 100}
`,
			wantErr: `unknown gender "mixed"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPool(writePool(t, tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPool(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read pool file")
	})
}

type captureWriter struct {
	upserts []roster.Athlete
	failAt  int // 1-based index to fail on, 0 disables
}

func (c *captureWriter) Upsert(ctx context.Context, a roster.Athlete) error {
	if c.failAt > 0 && len(c.upserts)+1 == c.failAt {
		return errors.New("storage down")
	}
	c.upserts = append(c.upserts, a)
	return nil
}

func TestImportPool(t *testing.T) {
	pool := []roster.Athlete{
		{ID: 1, Name: "A", Gender: roster.GenderMen, Salary: 100},
		{ID: 2, Name: "B", Gender: roster.GenderWomen, Salary: 200},
	}

	w := &captureWriter{}
	n, err := ImportPool(context.Background(), w, pool)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, w.upserts, 2)

	w = &captureWriter{failAt: 2}
	n, err = ImportPool(context.Background(), w, pool)
	require.Error(t, err)
	assert.Equal(t, 1, n, "count reflects how many landed before the failure")
}

func TestSplitByGender(t *testing.T) {
	men, women := SplitByGender([]roster.Athlete{
		{ID: 1, Gender: roster.GenderMen},
		{ID: 2, Gender: roster.GenderWomen},
		{ID: 3, Gender: roster.GenderMen},
	})
	assert.Len(t, men, 2)
	assert.Len(t, women, 1)
}

type captureSessions struct {
	recs []*repository.SessionRecord
}

func (c *captureSessions) Create(ctx context.Context, rec *repository.SessionRecord) error {
	c.recs = append(c.recs, rec)
	return nil
}

func generationPool() []roster.Athlete {
	return []roster.Athlete{
		{ID: 1, Name: "M-a", Gender: roster.GenderMen, Salary: 6000},
		{ID: 2, Name: "M-b", Gender: roster.GenderMen, Salary: 5000},
		{ID: 3, Name: "M-c", Gender: roster.GenderMen, Salary: 4000},
		{ID: 4, Name: "M-d", Gender: roster.GenderMen, Salary: 3000},
		{ID: 5, Name: "W-a", Gender: roster.GenderWomen, Salary: 6000},
		{ID: 6, Name: "W-b", Gender: roster.GenderWomen, Salary: 5000},
		{ID: 7, Name: "W-c", Gender: roster.GenderWomen, Salary: 4000},
		{ID: 8, Name: "W-d", Gender: roster.GenderWomen, Salary: 3000},
	}
}

func TestGenerateTeams(t *testing.T) {
	sink := &captureSessions{}
	cfg := roster.DefaultConfig()

	ids, err := GenerateTeams(context.Background(), sink, generationPool(),
		[]builder.Strategy{builder.Premium, builder.Value}, 4, cfg, nil)
	require.NoError(t, err)
	require.Len(t, ids, 4)
	require.Len(t, sink.recs, 4)

	// Every generated session deserializes into a submittable draft.
	for _, rec := range sink.recs {
		sess, err := session.Deserialize(rec.Payload)
		require.NoError(t, err)
		assert.Equal(t, session.StateRosterComplete, sess.Current)
		assert.True(t, sess.CanSubmit())
	}
}

func TestGenerateTeams_InfeasibleAbortsRun(t *testing.T) {
	sink := &captureSessions{}
	cfg := roster.DefaultConfig()
	cfg.TotalBudget = 1000

	ids, err := GenerateTeams(context.Background(), sink, generationPool(),
		[]builder.Strategy{builder.Value}, 3, cfg, nil)
	require.Error(t, err)

	var infeasible *builder.InfeasibleError
	assert.ErrorAs(t, err, &infeasible)
	assert.Empty(t, ids)
	assert.Empty(t, sink.recs, "no partial team ever lands in storage")
}

func TestGenerateTeams_BadArguments(t *testing.T) {
	sink := &captureSessions{}
	cfg := roster.DefaultConfig()

	_, err := GenerateTeams(context.Background(), sink, generationPool(), []builder.Strategy{builder.Value}, 0, cfg, nil)
	require.Error(t, err)

	_, err = GenerateTeams(context.Background(), sink, generationPool(), nil, 2, cfg, nil)
	require.Error(t, err)
}
