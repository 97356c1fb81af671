package config

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"transfer-cost/internal/errors"
)

// hclFile mirrors Config with optional fields so that absent
// attributes keep their defaults.
type hclFile struct {
	Version *string     `hcl:"version,optional"`
	Server  *hclServer  `hcl:"server,block"`
	Output  *hclOutput  `hcl:"output,block"`
	Logging *hclLogging `hcl:"logging,block"`
}

type hclServer struct {
	Addr                 *string  `hcl:"addr,optional"`
	ReadTimeoutSeconds   *int     `hcl:"read_timeout_seconds,optional"`
	WriteTimeoutSeconds  *int     `hcl:"write_timeout_seconds,optional"`
	CORSAllowedOrigins   []string `hcl:"cors_allowed_origins,optional"`
	CORSAllowCredentials *bool    `hcl:"cors_allow_credentials,optional"`
	MetricsEnabled       *bool    `hcl:"metrics_enabled,optional"`
	MetricsNamespace     *string  `hcl:"metrics_namespace,optional"`
}

type hclOutput struct {
	Currency      *string `hcl:"currency,optional"`
	DefaultFormat *string `hcl:"default_format,optional"`
}

type hclLogging struct {
	Level       *string `hcl:"level,optional"`
	Format      *string `hcl:"format,optional"`
	Output      *string `hcl:"output,optional"`
	Development *bool   `hcl:"development,optional"`
}

func decodeHCL(src []byte, filename string, config *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return errors.Config("parse config "+filename, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return errors.Config("decode config "+filename, diags)
	}

	raw.apply(config)
	return nil
}

func (f *hclFile) apply(config *Config) {
	setString(&config.Version, f.Version)

	if s := f.Server; s != nil {
		setString(&config.Server.Addr, s.Addr)
		setInt(&config.Server.ReadTimeoutSeconds, s.ReadTimeoutSeconds)
		setInt(&config.Server.WriteTimeoutSeconds, s.WriteTimeoutSeconds)
		if s.CORSAllowedOrigins != nil {
			config.Server.CORSAllowedOrigins = s.CORSAllowedOrigins
		}
		setBool(&config.Server.CORSAllowCredentials, s.CORSAllowCredentials)
		setBool(&config.Server.MetricsEnabled, s.MetricsEnabled)
		setString(&config.Server.MetricsNamespace, s.MetricsNamespace)
	}

	if o := f.Output; o != nil {
		setString(&config.Output.Currency, o.Currency)
		setString(&config.Output.DefaultFormat, o.DefaultFormat)
	}

	if l := f.Logging; l != nil {
		setString(&config.Logging.Level, l.Level)
		setString(&config.Logging.Format, l.Format)
		setString(&config.Logging.Output, l.Output)
		setBool(&config.Logging.Development, l.Development)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
