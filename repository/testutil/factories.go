package testutil

import (
	"time"

	"starbot/models"
)

// CreateTestCheck creates a test check with default values
func CreateTestCheck(checkID string, creatorID int64) *models.Check {
	return &models.Check{
		CheckID:            checkID,
		CreatorID:          creatorID,
		TotalStars:         100,
		StarsPerActivation: 10,
		ActivationsLeft:    10,
		CreatedAt:          time.Now(),
	}
}

// CreateTestCheckWithActivations creates a test check with a specific payout shape
func CreateTestCheckWithActivations(checkID string, creatorID int64, total, perActivation int64, activations int) *models.Check {
	check := CreateTestCheck(checkID, creatorID)
	check.TotalStars = total
	check.StarsPerActivation = perActivation
	check.ActivationsLeft = activations
	return check
}

// CreateTestPromo creates a test promo code with default values
func CreateTestPromo(code string) *models.PromoCode {
	return &models.PromoCode{
		Code:            code,
		Stars:           50,
		ActivationsLeft: 100,
		CreatedAt:       time.Now(),
	}
}

// CreateTestWithdrawal creates a pending test withdrawal
func CreateTestWithdrawal(token string, userID int64, amount int64) *models.Withdrawal {
	return &models.Withdrawal{
		Token:     token,
		UserID:    userID,
		Amount:    amount,
		Status:    models.WithdrawalStatusPending,
		CreatedAt: time.Now(),
	}
}
