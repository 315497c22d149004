// Package pgstore implements cache.Store on a PostgreSQL table.
//
//	if err := pgstore.Migrate(ctx, pool, "", logger); err != nil {
//		return err
//	}
//	store := pgstore.New(pool)
//
// Postgres has no native row expiry. Get filters on expires_at and
// DeleteExpired purges stale rows; run it periodically.
package pgstore
