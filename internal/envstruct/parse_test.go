package envstruct_test

import (
	"strings"
	"testing"
	"time"

	"github.com/myrjola/holocron/internal/envstruct"
	"github.com/stretchr/testify/require"
)

func TestPopulate(t *testing.T) {
	type args struct {
		v         any
		lookupEnv func(string) (string, bool)
	}
	unset := func(_ string) (string, bool) { return "", false }
	tests := []struct {
		name    string
		args    args
		want    any
		wantErr error
	}{
		{
			name:    "nil",
			args:    args{v: nil, lookupEnv: unset},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "not pointer",
			args:    args{v: struct{}{}, lookupEnv: unset},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "empty struct",
			args:    args{v: &struct{}{}, lookupEnv: unset},
			want:    &struct{}{},
			wantErr: nil,
		},
		{
			name: "empty env",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					APIURL string `env:"HOLOCRON_API_URL"`
				}{},
				lookupEnv: unset,
			},
			want:    nil,
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name: "picks correct env variable",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr       string `env:"HOLOCRON_ADDR"`
					APIURL     string `env:"HOLOCRON_API_URL"`
					OtherValue string
				}{},
				lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			},
			want: &struct {
				Addr       string
				APIURL     string
				OtherValue string
			}{Addr: "holocron_addr", APIURL: "holocron_api_url", OtherValue: ""},
			wantErr: nil,
		},
		{
			name: "handles default values of every supported type",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Level   string        `env:"HOLOCRON_LOG_LEVEL" envDefault:"info"`
					Limit   int           `env:"HOLOCRON_PAGE_LIMIT" envDefault:"9"`
					Debug   bool          `env:"HOLOCRON_DEBUG" envDefault:"true"`
					Timeout time.Duration `env:"HOLOCRON_API_TIMEOUT" envDefault:"1m30s"`
				}{},
				lookupEnv: unset,
			},
			want: &struct {
				Level   string
				Limit   int
				Debug   bool
				Timeout time.Duration
			}{Level: "info", Limit: 9, Debug: true, Timeout: 90 * time.Second},
			wantErr: nil,
		},
		{
			name: "rejects malformed int",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Limit int `env:"HOLOCRON_PAGE_LIMIT"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "ten", true },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name: "rejects malformed duration",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Timeout time.Duration `env:"HOLOCRON_API_TIMEOUT"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "soon", true },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name: "rejects unsupported types",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Ratio float64 `env:"HOLOCRON_RATIO"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "0.5", true },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.args.v
			err := envstruct.Populate(v, tt.args.lookupEnv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.EqualValues(t, tt.want, v)
			}
		})
	}
}
