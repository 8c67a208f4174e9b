package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

func TestDefault_Columns(t *testing.T) {
	l := Default()

	assert.Equal(t, "FMSCA viewer", l.Title)
	assert.Equal(t, []string{
		core.FieldCreatedDT,
		core.FieldModifiedDT,
		core.FieldEntityType,
		core.FieldOperatingStatus,
		core.FieldLegalName,
		core.FieldDBAName,
		core.FieldPhysicalAddress,
		core.FieldPhone,
		core.FieldUSDOTNumber,
		core.FieldMCMXFFNumber,
		core.FieldPowerUnits,
		core.FieldOutOfServiceDate,
	}, l.ColumnKeys())

	dot, ok := l.Column(core.FieldUSDOTNumber)
	require.True(t, ok)
	assert.True(t, dot.Numeric)
	assert.Equal(t, "DOT number", dot.Label)

	name, ok := l.Column(core.FieldLegalName)
	require.True(t, ok)
	assert.False(t, name.Numeric)

	assert.False(t, l.IsColumn(core.FieldDrivers), "detail-only field is not sortable")
}

func TestDefault_Sections(t *testing.T) {
	l := Default()

	require.Len(t, l.Sections, 3)
	assert.Equal(t, "USDOT INFORMATION", l.Sections[0].Title)
	assert.Equal(t, "OPERATING AUTHORITY INFORMATION", l.Sections[1].Title)
	assert.Equal(t, "COMPANY INFORMATION", l.Sections[2].Title)

	fallbacks := map[string]string{}
	for _, s := range l.Sections {
		for _, f := range s.Fields {
			if f.Fallback != "" {
				fallbacks[f.Key] = f.Fallback
			}
		}
	}
	assert.Equal(t, map[string]string{
		core.FieldRecordStatus:     "N/A",
		core.FieldOutOfServiceDate: "None",
		core.FieldOperatingStatus:  "N/A",
		core.FieldMCMXFFNumber:     "N/A",
		core.FieldDBAName:          "N/A",
		core.FieldDUNSNumber:       "N/A",
	}, fallbacks)
}

func TestRequiredFields(t *testing.T) {
	req := Default().RequiredFields()

	require.Len(t, req, 13)
	assert.Equal(t, core.FieldID, req[0])
	assert.NotContains(t, req, core.FieldMailingAddress)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "columns: [",
			wantErr: "parse layout",
		},
		{
			name:    "no columns",
			yaml:    "title: x\n",
			wantErr: "no columns",
		},
		{
			name:    "column without key",
			yaml:    "columns:\n  - {label: Name}\n",
			wantErr: "column 0 has no key",
		},
		{
			name:    "duplicate column",
			yaml:    "columns:\n  - {key: id}\n  - {key: id}\n",
			wantErr: `duplicate column "id"`,
		},
		{
			name:    "section without title",
			yaml:    "columns:\n  - {key: id}\nsections:\n  - fields: [{key: id}]\n",
			wantErr: "section 0 has no title",
		},
		{
			name:    "field without key",
			yaml:    "columns:\n  - {key: id}\nsections:\n  - title: A\n    fields: [{label: X}]\n",
			wantErr: `section "A" field 0 has no key`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("empty path is default", func(t *testing.T) {
		l, err := LoadFile("")
		require.NoError(t, err)
		assert.Same(t, Default(), l)
	})

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "layout.yaml")
		data := "title: Mini\ncolumns:\n  - {key: legal_name, label: Name}\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		l, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Mini", l.Title)
		assert.Equal(t, []string{core.FieldID, core.FieldLegalName}, l.RequiredFields())
		assert.Empty(t, l.Sections)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read layout")
	})
}
