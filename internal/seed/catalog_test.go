package seed_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/seed"
	"pharmacy/m/internal/testdb"
)

const catalog = `code,name,active_ingredient,concentration,dosage_form,presentation
AMX500,Amoxicillin,amoxicillin trihydrate,500mg,capsule,box of 21
PAR750,Paracetamol,paracetamol,750mg,tablet,box of 20
,Nameless,x,1mg,tablet,box
short,row
AMX500,Amoxicillin again,amoxicillin,500mg,capsule,box of 21
`

func TestLoadMedications(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()

	n, err := seed.LoadMedications(ctx, s, strings.NewReader(catalog), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = seed.LoadMedications(ctx, s, strings.NewReader(catalog), zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)

	meds, err := s.ListMedications(ctx, "")
	require.NoError(t, err)
	require.Len(t, meds, 2)
	assert.Equal(t, "Amoxicillin", meds[0].Name)
}

func TestLoadMedicationsFile_Missing(t *testing.T) {
	s := testdb.Open(t)
	n, err := seed.LoadMedicationsFile(context.Background(), s, filepath.Join(t.TempDir(), "none.csv"), zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadMedicationsFile_Bundled(t *testing.T) {
	s := testdb.Open(t)
	n, err := seed.LoadMedicationsFile(context.Background(), s, filepath.Join("..", "..", "assets", "medications.csv"), zerolog.Nop())
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestEnsureUser(t *testing.T) {
	s := testdb.Open(t)
	ctx := context.Background()

	created, err := seed.EnsureUser(ctx, s, "admin", "changeme", "Administrator")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = seed.EnsureUser(ctx, s, "admin", "other", "Someone")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := auth.NewAuthenticator(s).Authenticate(ctx, "admin", "changeme")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", user.FullName)
}
