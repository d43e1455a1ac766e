// Package tenantctx carries the resolved tenant and authenticated user
// through request contexts. Services read these values instead of taking
// tenant parameters on every call.
package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type TenantContextKey struct{}

type UserContextKey struct{}

func WithTenantID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, TenantContextKey{}, id)
}

func WithUserID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, UserContextKey{}, id)
}

func TenantIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	return idFromValue(ctx.Value(TenantContextKey{}))
}

func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	return idFromValue(ctx.Value(UserContextKey{}))
}

func idFromValue(v any) (snowflake.ID, bool) {
	switch id := v.(type) {
	case snowflake.ID:
		return id, id != 0
	case int64:
		return snowflake.ID(id), id != 0
	case string:
		parsed, err := snowflake.ParseString(id)
		if err != nil {
			return 0, false
		}
		return parsed, parsed != 0
	default:
		return 0, false
	}
}
