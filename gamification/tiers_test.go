package gamification

import (
	"testing"

	"taskquest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResolveTierPicksHighestQualifying(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		balance int
		want    string
	}{
		{0, "Novice"},
		{29, "Novice"},
		{30, "Aspirant"},
		{99, "Aspirant"},
		{100, "Contributor"},
		{100000, "Contributor"},
	}

	for _, tt := range tests {
		tier, err := ResolveTier(db, tt.balance)
		require.NoError(t, err, "balance %d", tt.balance)
		assert.Equal(t, tt.want, tier.Name, "balance %d", tt.balance)
		assert.LessOrEqual(t, tier.MinPoints, tt.balance)
	}
}

func TestResolveTierTieBreaksByRank(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Tier{Name: "Aspirant II", MinPoints: 30, Rank: 9}).Error)

	tier, err := ResolveTier(db, 35)
	require.NoError(t, err)
	assert.Equal(t, "Aspirant II", tier.Name)
}

func TestResolveTierNegativeBalanceFallsBackToFloor(t *testing.T) {
	db := newTestDB(t)

	tier, err := ResolveTier(db, -1)
	require.NoError(t, err)
	assert.Equal(t, "Novice", tier.Name)

	tier, err = ResolveTier(db, -100000)
	require.NoError(t, err)
	assert.Equal(t, "Novice", tier.Name)
}

func TestResolveTierEmptyTable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&models.Tier{}).Error)

	_, err := ResolveTier(db, 0)
	assert.ErrorIs(t, err, ErrNoTierForBalance)
}

func TestRecalculateTierPromotes(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("point_balance", 40).Error)

	tier, err := RecalculateTier(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aspirant", tier.Name)
	assert.Equal(t, tier.ID, reloadUser(t, db, user.ID).TierID)
	assert.EqualValues(t, 1, auditCount(t, db, user.ID, models.ActivityTierAchieved))
}

func TestRecalculateTierNoOpWithoutChange(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	tier, err := RecalculateTier(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novice", tier.Name)

	// Same tier resolved again: no write, no audit entry.
	assert.EqualValues(t, 0, auditCount(t, db, user.ID, models.ActivityTierAchieved))
}

func TestRecalculateTierDemotes(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	contributor := tierByName(t, db, "Contributor")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"point_balance": 10, "tier_id": contributor.ID}).Error)

	tier, err := RecalculateTier(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novice", tier.Name)
	assert.EqualValues(t, 1, auditCount(t, db, user.ID, models.ActivityTierAchieved))
}

func TestRecalculateAllTiersAfterThresholdChange(t *testing.T) {
	db := newTestDB(t)

	alice := createUser(t, db, "alice")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", alice.ID).
		UpdateColumn("point_balance", 40).Error)
	_, err := RecalculateTier(db, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "Aspirant", reloadTierName(t, db, alice.ID))

	bob := createUser(t, db, "bob")

	// Raising the Aspirant threshold above alice's balance demotes her;
	// bob stays put.
	require.NoError(t, db.Model(&models.Tier{}).Where("name = ?", "Aspirant").
		UpdateColumn("min_points", 50).Error)

	moved, err := RecalculateAllTiers(db)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.Equal(t, "Novice", reloadTierName(t, db, alice.ID))
	assert.Equal(t, "Novice", reloadTierName(t, db, bob.ID))
}

func reloadTierName(t *testing.T, db *gorm.DB, userID uint) string {
	t.Helper()

	var user models.User
	require.NoError(t, db.Preload("Tier").First(&user, userID).Error)
	require.NotNil(t, user.Tier)
	return user.Tier.Name
}

func TestRecalculateTierUnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := RecalculateTier(db, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
