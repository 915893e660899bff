package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/safebite/safebite/backend/internal/mocks"
	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/store"
	"github.com/safebite/safebite/backend/internal/testhelpers"
)

func TestSeedUsers(t *testing.T) {
	ctx := context.Background()
	log, _ := test.NewNullLogger()
	profiles := service.NewProfileService(store.NewGormStore(testhelpers.SetupSQLite(t)))
	verifier := service.NewJWTVerifier("seed-secret")

	require.NoError(t, profiles.CreateProfile(ctx, testUsers[0].uid, models.Document{"name": "kept"}))

	var out bytes.Buffer
	n := seedUsers(ctx, profiles, verifier, time.Hour, &out, log)
	assert.Equal(t, len(testUsers), n)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(testUsers))
	for i, line := range lines {
		uid, token, ok := strings.Cut(line, "\t")
		require.True(t, ok, line)
		assert.Equal(t, testUsers[i].uid, uid)
		got, err := verifier.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, uid, got)
	}

	existing, err := profiles.GetProfile(ctx, testUsers[0].uid)
	require.NoError(t, err)
	assert.Equal(t, "kept", existing.String("name"))

	created, err := profiles.GetProfile(ctx, testUsers[1].uid)
	require.NoError(t, err)
	assert.Equal(t, testUsers[1].name, created.String("name"))
}

func TestSeedUsersSkipsFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	profiles := &mocks.MockProfileService{}
	profiles.On("GetProfile", mock.Anything, mock.Anything).Return(nil, errors.New("store down"))

	var out bytes.Buffer
	n := seedUsers(context.Background(), profiles, service.NewJWTVerifier("seed-secret"), time.Hour, &out, log)

	assert.Zero(t, n)
	assert.Empty(t, out.String())
	assert.Len(t, hook.AllEntries(), len(testUsers))
	profiles.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything, mock.Anything)
}
