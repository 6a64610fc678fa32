package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewCodec_RejectsShortSecret(t *testing.T) {
	_, err := NewCodec([]byte("too-short"))
	assert.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	tenant := "acme"
	sheetID := "sheet-acme"
	data := Data{
		Role:    RoleTenantAdmin,
		Tenant:  &tenant,
		SheetID: &sheetID,
		Status:  "Active",
		Subject: "alice",
	}

	token, err := codec.Seal(data, time.Hour)
	require.NoError(t, err)
	assert.NotContains(t, token, "alice", "payload must not be readable")

	got, err := codec.Unseal(token)
	require.NoError(t, err)
	assert.Equal(t, RoleTenantAdmin, got.Role)
	require.NotNil(t, got.Tenant)
	assert.Equal(t, "acme", *got.Tenant)
	require.NotNil(t, got.SheetID)
	assert.Equal(t, "sheet-acme", *got.SheetID)
	assert.Equal(t, "Active", got.Status)
	assert.Equal(t, "alice", got.Subject)
}

func TestCodec_PlatformAdminCarriesNoTenant(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	token, err := codec.Seal(Data{Role: RolePlatformAdmin, Subject: "root@example.com"}, time.Hour)
	require.NoError(t, err)

	got, err := codec.Unseal(token)
	require.NoError(t, err)
	assert.Equal(t, RolePlatformAdmin, got.Role)
	assert.Nil(t, got.Tenant)
	assert.Nil(t, got.SheetID)
}

func TestCodec_ExpiredToken(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	token, err := codec.Seal(Data{Role: RoleTenantUser, Subject: "bob"}, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Unseal(token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCodec_TamperedToken(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	token, err := codec.Seal(Data{Role: RoleTenantUser, Subject: "bob"}, time.Hour)
	require.NoError(t, err)

	tampered := []byte(token)
	tampered[len(tampered)/2] ^= 'x'
	_, err = codec.Unseal(string(tampered))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCodec_WrongKey(t *testing.T) {
	sealer, err := NewCodec(testSecret)
	require.NoError(t, err)
	opener, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	token, err := sealer.Seal(Data{Role: RoleTenantUser, Subject: "bob"}, time.Hour)
	require.NoError(t, err)

	_, err = opener.Unseal(token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCodec_GarbageInput(t *testing.T) {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	for _, token := range []string{"", "not-base64!!!", "c2hvcnQ"} {
		_, err := codec.Unseal(token)
		assert.ErrorIs(t, err, ErrNoSession)
	}
}
