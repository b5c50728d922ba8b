package actorctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{Email: "a@x.com", Roles: []string{"ROLE_USER"}})

	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	require.Equal(t, "a@x.com", p.Email)
}

func TestPrincipalFrom_Missing(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	require.False(t, ok)

	_, ok = PrincipalFrom(WithPrincipal(context.Background(), Principal{}))
	require.False(t, ok)
}

func TestHasAnyRole(t *testing.T) {
	p := Principal{Email: "a@x.com", Roles: []string{"ROLE_USER"}}

	require.True(t, p.HasAnyRole("ROLE_ADMIN", "ROLE_USER"))
	require.False(t, p.HasAnyRole("ROLE_ADMIN"))
	require.False(t, p.HasAnyRole())
}
