package stor

import (
	"github.com/jkestr/rechanize/pkg/config"
	"gorm.io/gorm"
)

const minTxRetry = 3

// WithTxRetry runs fn in a transaction, retrying it up to RETS_TX_RETRY
// times (at least three).
func WithTxRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error

	retryCount := config.GetIntKeyWithDefault("RETS_TX_RETRY", minTxRetry)
	if retryCount < minTxRetry {
		retryCount = minTxRetry
	}

	for i := 0; i < retryCount; i++ {
		if err = db.Transaction(fn); err == nil {
			break
		}
	}

	return err
}
