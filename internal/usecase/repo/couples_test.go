package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/internal/usecase/repo"
)

func TestStaticCouples(t *testing.T) {
	t.Parallel()

	couples, err := repo.NewStaticCouples([]entity.Couple{
		{ID: "c1", Members: [2]string{"alice", "bob"}},
		{ID: "c2", Members: [2]string{"carol", "dave"}},
	})
	require.NoError(t, err)

	c, err := couples.CoupleOf(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "alice", c.Partner("bob"))

	_, err = couples.CoupleOf(context.Background(), "mallory")
	assert.ErrorIs(t, err, usecase.ErrUnknownUser)
}

func TestStaticCouples_Replace(t *testing.T) {
	t.Parallel()

	couples, err := repo.NewStaticCouples([]entity.Couple{{ID: "c1", Members: [2]string{"alice", "bob"}}})
	require.NoError(t, err)

	require.NoError(t, couples.Replace([]entity.Couple{{ID: "c9", Members: [2]string{"alice", "erin"}}}))

	c, err := couples.CoupleOf(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "c9", c.ID)

	_, err = couples.CoupleOf(context.Background(), "bob")
	assert.ErrorIs(t, err, usecase.ErrUnknownUser)
}

func TestStaticCouples_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		couples []entity.Couple
	}{
		{
			name:    "missing id",
			couples: []entity.Couple{{Members: [2]string{"alice", "bob"}}},
		},
		{
			name: "duplicate id",
			couples: []entity.Couple{
				{ID: "c1", Members: [2]string{"alice", "bob"}},
				{ID: "c1", Members: [2]string{"carol", "dave"}},
			},
		},
		{
			name:    "same member twice",
			couples: []entity.Couple{{ID: "c1", Members: [2]string{"alice", "alice"}}},
		},
		{
			name:    "missing member",
			couples: []entity.Couple{{ID: "c1", Members: [2]string{"alice", ""}}},
		},
		{
			name: "user in two couples",
			couples: []entity.Couple{
				{ID: "c1", Members: [2]string{"alice", "bob"}},
				{ID: "c2", Members: [2]string{"bob", "carol"}},
			},
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := repo.NewStaticCouples(tc.couples)
			assert.Error(t, err)
		})
	}
}

func TestStaticCouples_FailedReplaceKeepsOld(t *testing.T) {
	t.Parallel()

	couples, err := repo.NewStaticCouples([]entity.Couple{{ID: "c1", Members: [2]string{"alice", "bob"}}})
	require.NoError(t, err)

	assert.Error(t, couples.Replace([]entity.Couple{{ID: "c1", Members: [2]string{"alice", "alice"}}}))

	c, err := couples.CoupleOf(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
}
