package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound         = "user not found"
	errOTPNotFound          = "verification code not found"
	errSubscriptionNotFound = "subscription not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedCreateUserFmt   = "failed to create user: %w"
	errFailedGetUserFmt      = "failed to get user: %w"
	errFailedListUsersFmt    = "failed to list users: %w"
	errFailedScanUserFmt     = "failed to scan user: %w"
	errIterateUsersFmt       = "error iterating users: %w"
	errFailedUpdateUserFmt   = "failed to update user: %w"

	errFailedCreateOTPFmt     = "failed to create verification code: %w"
	errFailedGetOTPFmt        = "failed to get verification code: %w"
	errFailedUpdateOTPFmt     = "failed to update verification code: %w"
	errFailedInvalidateOTPFmt = "failed to invalidate verification codes: %w"

	errFailedCreateSubscriptionFmt = "failed to create subscription: %w"
	errFailedGetSubscriptionFmt    = "failed to get subscription: %w"
	errFailedUpdateSubscriptionFmt = "failed to update subscription: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCreateUser           = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedGetUser              = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedListUsers            = func(err error) error { return fmt.Errorf(errFailedListUsersFmt, err) }
	errFailedScanUser             = func(err error) error { return fmt.Errorf(errFailedScanUserFmt, err) }
	errIterateUsers               = func(err error) error { return fmt.Errorf(errIterateUsersFmt, err) }
	errFailedUpdateUser           = func(err error) error { return fmt.Errorf(errFailedUpdateUserFmt, err) }
	errFailedCreateOTP            = func(err error) error { return fmt.Errorf(errFailedCreateOTPFmt, err) }
	errFailedGetOTP               = func(err error) error { return fmt.Errorf(errFailedGetOTPFmt, err) }
	errFailedUpdateOTP            = func(err error) error { return fmt.Errorf(errFailedUpdateOTPFmt, err) }
	errFailedInvalidateOTP        = func(err error) error { return fmt.Errorf(errFailedInvalidateOTPFmt, err) }
	errFailedCreateSubscription   = func(err error) error { return fmt.Errorf(errFailedCreateSubscriptionFmt, err) }
	errFailedGetSubscription      = func(err error) error { return fmt.Errorf(errFailedGetSubscriptionFmt, err) }
	errFailedUpdateSubscription   = func(err error) error { return fmt.Errorf(errFailedUpdateSubscriptionFmt, err) }
)
