package gamification

import (
	"testing"

	"taskquest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPointDeltaSumsDeltas(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	balance, err := ApplyPointDelta(db, user.ID, 20, "reward")
	require.NoError(t, err)
	assert.Equal(t, 20, balance)

	balance, err = ApplyPointDelta(db, user.ID, 30, "reward")
	require.NoError(t, err)
	assert.Equal(t, 50, balance)

	balance, err = ApplyPointDelta(db, user.ID, -10, "correction")
	require.NoError(t, err)
	assert.Equal(t, 40, balance)

	assert.Equal(t, 40, reloadUser(t, db, user.ID).PointBalance)
	assert.EqualValues(t, 3, auditCount(t, db, user.ID, models.ActivityPointsAdjusted))
}

func TestApplyPointDeltaRecordsReasonAndDelta(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	_, err := ApplyPointDelta(db, user.ID, 15, "Completed sprint review")
	require.NoError(t, err)

	var entry models.ActivityLogEntry
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, models.ActivityPointsAdjusted, entry.Kind)
	assert.Equal(t, "Completed sprint review", entry.Description)
	require.NotNil(t, entry.PointsChange)
	assert.Equal(t, 15, *entry.PointsChange)
}

func TestApplyPointDeltaAllowsNegativeBalance(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	balance, err := ApplyPointDelta(db, user.ID, -50, "clawback")
	require.NoError(t, err)
	assert.Equal(t, -50, balance)
}

func TestApplyPointDeltaUnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := ApplyPointDelta(db, 999, 10, "reward")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
