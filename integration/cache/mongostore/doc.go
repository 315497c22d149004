// Package mongostore implements cache.Store on a MongoDB collection.
//
//	store := mongostore.New(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		return err
//	}
package mongostore
