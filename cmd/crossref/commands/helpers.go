package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/edent/crossref-client/pkg/crossref"
	"github.com/edent/crossref-client/pkg/crossrefclient"
)

// CreateClient builds a client from the active viper configuration.
func CreateClient() (crossref.Client, error) {
	config := &crossref.Config{
		Mailto:     viper.GetString("mailto"),
		UserAgent:  viper.GetString("user_agent"),
		APIVersion: viper.GetString("api_version"),
		Debug:      viper.GetBool("verbose"),
	}

	if config.Debug {
		logger, err := newZapLogger()
		if err != nil {
			return nil, err
		}

		config.Logger = logger
	}

	cache, err := createCache()
	if err != nil {
		return nil, err
	}

	if cache != nil {
		config.Cache = cache
		config.CacheTTL = viper.GetDuration("cache_ttl")
	}

	return crossrefclient.New(config)
}

// createCache builds the cache backend selected by the "cache" setting.
// An empty setting or "none" disables caching.
func createCache() (crossref.Cache, error) {
	backend := strings.ToLower(viper.GetString("cache"))

	switch backend {
	case "", "none":
		return nil, nil
	case "memory":
		return crossref.NewCacheFromConfig(&crossref.CacheConfig{Type: crossref.CacheTypeMemory})
	case "redis":
		return crossref.NewCacheFromConfig(&crossref.CacheConfig{
			Type: crossref.CacheTypeRedis,
			Redis: &crossref.RedisCacheConfig{
				Addr: viper.GetString("redis_addr"),
			},
		})
	case "nats":
		return crossref.NewCacheFromConfig(&crossref.CacheConfig{
			Type: crossref.CacheTypeNATS,
			NATS: &crossref.NATSKVConfig{
				URL:    viper.GetString("nats_url"),
				Bucket: viper.GetString("nats_bucket"),
			},
		})
	default:
		return nil, fmt.Errorf("%w: %s", crossref.ErrUnsupportedCacheType, backend)
	}
}

// outputFormat returns the requested output format, defaulting to a table on
// a terminal and JSON otherwise.
func outputFormat() string {
	output := viper.GetString("output")
	if output != "" {
		return output
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}

	return "json"
}

// renderOutput writes value as JSON or YAML, or calls renderTable for the
// table format.
func renderOutput(value interface{}, renderTable func() error) error {
	switch outputFormat() {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(value)
	default:
		return renderTable()
	}
}

// truncate shortens s for table cells.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-3] + "..."
}

// firstOrEmpty returns the first element of a string slice, if any.
func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

// workYear extracts the publication year from a work's issued date.
func workYear(work *crossref.Work) string {
	if work.Issued == nil || len(work.Issued.DateParts) == 0 || len(work.Issued.DateParts[0]) == 0 {
		return ""
	}

	return fmt.Sprintf("%d", work.Issued.DateParts[0][0])
}

// zapLogger adapts zap to the crossref.Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger() (*zapLogger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return &zapLogger{sugar: logger.Sugar()}, nil
}

func flattenFields(fields map[string]interface{}) []interface{} {
	flat := make([]interface{}, 0, len(fields)*2)
	for key, value := range fields {
		flat = append(flat, key, value)
	}

	return flat
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) {
	l.sugar.Debugw(msg, flattenFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields map[string]interface{}) {
	l.sugar.Infow(msg, flattenFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields map[string]interface{}) {
	l.sugar.Warnw(msg, flattenFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields map[string]interface{}) {
	l.sugar.Errorw(msg, flattenFields(fields)...)
}

// buildListParams assembles QueryParams from the shared list flags.
func buildListParams(query string, rows, offset int, sort, order string, filters, facets []string) *crossref.QueryParams {
	params := crossref.NewQueryParams()

	if query != "" {
		params.WithQuery(query)
	}

	if rows > 0 {
		params.WithRows(rows)
	}

	if offset > 0 {
		params.WithOffset(offset)
	}

	if sort != "" {
		params.WithSort(sort)
	}

	if order != "" {
		params.WithOrder(order)
	}

	for _, filter := range filters {
		name, value, ok := strings.Cut(filter, ":")
		if !ok {
			continue
		}

		params.WithFilter(name, value)
	}

	for _, facet := range facets {
		name, value, ok := strings.Cut(facet, ":")
		if !ok {
			continue
		}

		params.WithFacet(name, value)
	}

	return params
}
