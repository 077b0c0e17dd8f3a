package adlookup_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/adlookup/adlookup"
	"github.com/hashicorp/go-hclog"
	"github.com/jimlambrt/gldap/testdirectory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against an in-memory ldap directory and cover the
// connection and bind paths; query construction and result handling are
// covered by the in-package tests.
func TestClient_Lookup_directory(t *testing.T) {
	t.Parallel()
	testCtx := context.Background()
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "test-logger",
		Level: hclog.Error,
	})
	td := testdirectory.Start(t,
		testdirectory.WithLogger(t, logger),
	)
	users := testdirectory.NewUsers(t, []string{"bob"})
	users = append(users, adlookup.TestUsers(t, []string{"alice"})...)
	td.SetUsers(users...)

	bindDN := fmt.Sprintf("%s=%s,%s", testdirectory.DefaultUserAttr, "bob", testdirectory.DefaultUserDN)

	t.Run("bind-and-search", func(t *testing.T) {
		require := require.New(t)
		client, err := adlookup.NewClient(testCtx, &adlookup.ClientConfig{
			URLs:         []string{fmt.Sprintf("ldaps://127.0.0.1:%d", td.Port())},
			Certificate:  td.Cert(),
			BindDN:       bindDN,
			BindPassword: "password",
		})
		require.NoError(err)
		defer func() { client.Close(testCtx) }()

		records, err := client.Lookup(testCtx, "alice",
			adlookup.WithSearchBase(testdirectory.DefaultUserDN))
		require.NoError(err)
		require.NotNil(records)
	})

	t.Run("wrong-bind-password", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		client, err := adlookup.NewClient(testCtx, &adlookup.ClientConfig{
			URLs:         []string{fmt.Sprintf("ldaps://127.0.0.1:%d", td.Port())},
			Certificate:  td.Cert(),
			BindDN:       bindDN,
			BindPassword: "invalid-password",
		})
		require.NoError(err)
		defer func() { client.Close(testCtx) }()

		records, err := client.Lookup(testCtx, "alice",
			adlookup.WithSearchBase(testdirectory.DefaultUserDN))
		require.Error(err)
		assert.Contains(err.Error(), "unable to bind")
		assert.Nil(records)
	})

	t.Run("unreachable-directory", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		client, err := adlookup.NewClient(testCtx, &adlookup.ClientConfig{
			URLs:         []string{"ldaps://127.0.0.1:65535"},
			Certificate:  td.Cert(),
			BindDN:       bindDN,
			BindPassword: "password",
		})
		require.NoError(err)
		defer func() { client.Close(testCtx) }()

		records, err := client.Lookup(testCtx, "alice",
			adlookup.WithSearchBase(testdirectory.DefaultUserDN))
		require.Error(err)
		assert.Contains(err.Error(), "failed to connect")
		assert.Nil(records)
	})

	t.Run("missing-credential-fails-before-connecting", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		client, err := adlookup.NewClient(testCtx, &adlookup.ClientConfig{
			URLs:        []string{fmt.Sprintf("ldaps://127.0.0.1:%d", td.Port())},
			Certificate: td.Cert(),
		})
		require.Error(err)
		assert.ErrorIs(err, adlookup.ErrInvalidParameter)
		assert.Contains(err.Error(), "missing bind credential")
		assert.Nil(client)
	})
}
