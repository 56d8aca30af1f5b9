package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalValid(t *testing.T) {
	cases := []struct {
		name string
		p    Principal
		want bool
	}{
		{"admin", Principal{Kind: KindAdministrator, Identifier: "Admin@123"}, true},
		{"regional with region", Principal{Kind: KindRegionalManager, Identifier: "amhara@123", Region: "Amhara"}, true},
		{"regional without region", Principal{Kind: KindRegionalManager, Identifier: "amhara@123"}, false},
		{"manager with region", Principal{Kind: KindWoredaManager, Identifier: "0911", Region: "Amhara"}, false},
		{"empty identifier", Principal{Kind: KindWoredaRepresentative}, false},
		{"unknown kind", Principal{Kind: "owner", Identifier: "x"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.Valid())
		})
	}
}

func TestPrincipalClasses(t *testing.T) {
	view := Principal{Kind: KindViewOnlyAdministrator, Identifier: "Admin123"}
	assert.True(t, view.IsAdmin())
	assert.True(t, view.ReadOnly())
	assert.False(t, view.ManagesOwnDAs())

	rep := Principal{Kind: KindWoredaRepresentative, Identifier: "0911000111"}
	assert.False(t, rep.IsAdmin())
	assert.False(t, rep.ReadOnly())
	assert.True(t, rep.ManagesOwnDAs())
}
