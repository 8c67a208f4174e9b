package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/fmcsa/internal/config"
	"github.com/JonMunkholm/fmcsa/internal/core"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(func(k string) string { return env[k] })
	require.NoError(t, err)
	return cfg
}

func TestOpen_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	data := "id,created_dt,data_source_modified_dt,entity_type,operating_status,legal_name,dba_name," +
		"physical_address,phone,usdot_number,mc_mx_ff_number,power_units,out_of_service_date\n" +
		"7,2024-01-01,,CARRIER,AUTHORIZED,ACME,,1 Main St,555,123,MC-1,3,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	app, err := Open(context.Background(), loadConfig(t, map[string]string{"SOURCE_PATH": path}))
	require.NoError(t, err)
	defer app.Close()

	rec, err := app.Service.Record(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "ACME", rec.Get(core.FieldLegalName))
	assert.Equal(t, "file:"+path, app.Service.Status().Source)
}

func TestOpen_HTTPSource(t *testing.T) {
	app, err := Open(context.Background(), loadConfig(t, map[string]string{
		"SOURCE_URL": "http://127.0.0.1:1/records.csv",
	}))
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, config.SourceHTTP, app.Config.SourceKind())
	assert.Contains(t, app.Service.Status().Source, "http")
}

func TestOpen_BadLayout(t *testing.T) {
	_, err := Open(context.Background(), loadConfig(t, map[string]string{
		"VIEW_LAYOUT_FILE": filepath.Join(t.TempDir(), "missing.yaml"),
	}))
	assert.Error(t, err)
}

func TestOpen_BadDatabaseURL(t *testing.T) {
	_, err := Open(context.Background(), loadConfig(t, map[string]string{
		"SOURCE_DATABASE_URL": "postgres://%zz",
	}))
	assert.Error(t, err)
}
