package seed

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/platform/sqlstore"
	"github.com/phrazzld/studydeck/internal/store"
	"github.com/phrazzld/studydeck/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `[
  {
    "name": "Mindset",
    "description": "",
    "cover_image_url": "/covers/mindset.png",
    "mode": "pos",
    "dataFile": "/mindset/U1_pre.json",
    "category": "英文",
    "subBanks": [
      {"name": "U1", "mode": "contextual_cloze", "dataFile": "/mindset/U1.json"},
      {"name": "U2", "mode": "mcq", "dataFile": "/mindset/U2.json", "category": "Grammar"}
    ]
  },
  {"name": "Misc", "mode": "qa"}
]`

func testData() fstest.MapFS {
	return fstest.MapFS{
		"mindset/U1_pre.json": {Data: []byte(`[
			{"content": "grow", "answer": "", "metadata": {"pos_forms": {"V.": {"word": "grow"}, "N.": {"word": "growth"}}}}
		]`)},
		"mindset/U1.json": {Data: []byte(`[
			{"content": "She (___) fast.", "answer": "grows", "metadata": {"familyKey": "grow", "forms": ["grow", "grows"]}},
			{"content": "Rapid (___).", "answer": "growth", "metadata": {"familyKey": "growth"}}
		]`)},
		"mindset/U2.json": {Data: []byte(`[
			{"content": "Pick one", "answer": "", "options": ["a", "b"], "correctOptionIndex": 1}
		]`)},
	}
}

func openTestDB(t *testing.T) (*sql.DB, *sqlstore.BankStore) {
	t.Helper()
	db, dialect := testdb.OpenSQLite(t)
	return db, sqlstore.NewBankStore(db, dialect, nil)
}

func TestParseManifest(t *testing.T) {
	specs, err := ParseManifest([]byte(manifest))
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "/mindset/U1_pre.json", specs[0].DataFile)
	require.Len(t, specs[0].SubBanks, 2)
	assert.Equal(t, "contextual_cloze", specs[0].SubBanks[0].Mode)

	_, err = ParseManifest([]byte(`{"name": "not an array"}`))
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

func TestLoadManifest(t *testing.T) {
	fsys := fstest.MapFS{"banks.json": {Data: []byte(manifest)}}
	specs, err := LoadManifest(fsys, "banks.json")
	require.NoError(t, err)
	assert.Len(t, specs, 2)

	_, err = LoadManifest(fsys, "missing.json")
	assert.Error(t, err)
}

func TestRunInsertsBanksAndQuestions(t *testing.T) {
	ctx := context.Background()
	db, banks := openTestDB(t)
	specs, err := ParseManifest([]byte(manifest))
	require.NoError(t, err)

	summary, err := NewSeeder(db, banks, testData(), Options{}, nil).Run(ctx, specs)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Banks)
	assert.Equal(t, 4, summary.Questions)
	assert.Empty(t, summary.Skipped)

	all, err := banks.FetchBanks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	var parent *domain.QuestionBank
	for _, b := range all {
		if b.Name == "Mindset" {
			parent = b
		}
	}
	require.NotNil(t, parent)

	full, err := banks.FetchBankWithQuestions(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, full.Questions, 1)
	assert.Equal(t, []string{"N.", "V."}, full.Questions[0].PopulatedColumns(domain.ModePOS))
	require.Len(t, full.SubBanks, 2)
	assert.Equal(t, "Mindset", full.SubBanks[0].Category, "children default to the parent's name")
	assert.Equal(t, "Grammar", full.SubBanks[1].Category)

	mcq, err := banks.FetchBankWithQuestions(ctx, full.SubBanks[1].ID)
	require.NoError(t, err)
	require.Len(t, mcq.Questions, 1)
	require.NotNil(t, mcq.Questions[0].CorrectOptionIndex)
	assert.Equal(t, 1, *mcq.Questions[0].CorrectOptionIndex)
	assert.Equal(t, []string{"a", "b"}, mcq.Questions[0].Options)
}

func TestRunReplacesExistingData(t *testing.T) {
	ctx := context.Background()
	db, banks := openTestDB(t)
	specs, err := ParseManifest([]byte(manifest))
	require.NoError(t, err)
	seeder := NewSeeder(db, banks, testData(), Options{}, nil)

	_, err = seeder.Run(ctx, specs)
	require.NoError(t, err)
	_, err = seeder.Run(ctx, specs[1:])
	require.NoError(t, err)

	all, err := banks.FetchBanks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Misc", all[0].Name)
}

func TestRunMissingDataFile(t *testing.T) {
	ctx := context.Background()
	specs := []BankSpec{{Name: "Lost", Mode: "qa", DataFile: "/nowhere.json"}}

	t.Run("lenient", func(t *testing.T) {
		db, banks := openTestDB(t)
		summary, err := NewSeeder(db, banks, fstest.MapFS{}, Options{}, nil).Run(ctx, specs)
		require.NoError(t, err)
		assert.Equal(t, []string{"/nowhere.json"}, summary.Skipped)
		assert.Equal(t, 1, summary.Banks)
	})

	t.Run("strict", func(t *testing.T) {
		db, banks := openTestDB(t)
		_, err := NewSeeder(db, banks, fstest.MapFS{}, Options{Strict: true}, nil).Run(ctx, specs)
		require.Error(t, err)

		all, err := banks.FetchBanks(ctx)
		require.NoError(t, err)
		assert.Empty(t, all, "failed run is rolled back")
	})
}

func TestRunRollsBackOnInvalidBank(t *testing.T) {
	ctx := context.Background()
	db, banks := openTestDB(t)
	seeder := NewSeeder(db, banks, testData(), Options{}, nil)

	_, err := seeder.Run(ctx, []BankSpec{{Name: "Kept", Mode: "qa"}})
	require.NoError(t, err)

	_, err = seeder.Run(ctx, []BankSpec{{Name: "Bad", Mode: "flashcards"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMode)

	all, err := banks.FetchBanks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Kept", all[0].Name)
}

func TestRunRejectsNestedSubBanks(t *testing.T) {
	db, banks := openTestDB(t)
	specs := []BankSpec{{
		Name: "Top", Mode: "qa",
		SubBanks: []BankSpec{{Name: "Mid", Mode: "qa", SubBanks: []BankSpec{{Name: "Deep", Mode: "qa"}}}},
	}}
	_, err := NewSeeder(db, banks, fstest.MapFS{}, Options{}, nil).Run(context.Background(), specs)
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

var _ store.BankStore = (*sqlstore.BankStore)(nil)
