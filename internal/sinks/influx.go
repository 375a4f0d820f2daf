package sinks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/benmeehan/procstat-agent/internal/constants"
	"github.com/benmeehan/procstat-agent/internal/models"
	client "github.com/influxdata/influxdb/client/v2"
	"github.com/rs/zerolog"
)

// InfluxClient is the subset of the InfluxDB HTTP client used by InfluxSink.
type InfluxClient interface {
	Ping(timeout time.Duration) (time.Duration, string, error)
	Write(bp client.BatchPoints) error
	Query(q client.Query) (*client.Response, error)
	Close() error
}

// InfluxOptions configures the connection to an InfluxDB 1.x server.
type InfluxOptions struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Database   string
	Timeout    time.Duration // zero means no client timeout
	MinVersion string        // empty disables the server version check
}

// Addr returns the HTTP address of the server.
func (o InfluxOptions) Addr() string {
	return "http://" + net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// InfluxSink writes point batches to one InfluxDB database.
type InfluxSink struct {
	client     InfluxClient
	database   string
	timeout    time.Duration
	minVersion *semver.Constraints
	logger     zerolog.Logger
}

// NewInfluxSink creates an HTTP client for opts. No request is made until
// EnsureReady or WritePoints is called.
func NewInfluxSink(opts InfluxOptions, logger zerolog.Logger) (*InfluxSink, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     opts.Addr(),
		Username: opts.Username,
		Password: opts.Password,
		Timeout:  opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create influxdb client: %w", err)
	}
	return NewInfluxSinkWithClient(c, opts, logger)
}

// NewInfluxSinkWithClient builds a sink around an existing client.
func NewInfluxSinkWithClient(c InfluxClient, opts InfluxOptions, logger zerolog.Logger) (*InfluxSink, error) {
	if opts.Database == "" {
		return nil, errors.New("influxdb database name is empty")
	}

	s := &InfluxSink{
		client:   c,
		database: opts.Database,
		timeout:  opts.Timeout,
		logger:   logger.With().Str("database", opts.Database).Logger(),
	}

	if opts.MinVersion != "" {
		constraint, err := semver.NewConstraint(">= " + opts.MinVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid influxdb min version %q: %w", opts.MinVersion, err)
		}
		s.minVersion = constraint
	}

	return s, nil
}

// EnsureReady checks the server is reachable and creates the database if it
// does not exist. CREATE DATABASE is a no-op for an existing database.
func (s *InfluxSink) EnsureReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rtt, version, err := s.client.Ping(s.timeout)
	if err != nil {
		return fmt.Errorf("influxdb ping failed: %w", err)
	}
	s.logger.Debug().Dur("rtt", rtt).Str("version", version).Msg("InfluxDB reachable")

	if err := s.checkVersion(version); err != nil {
		return err
	}

	resp, err := s.client.Query(client.NewQuery(CreateDatabaseStatement(s.database), "", ""))
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	s.logger.Info().Str("version", version).Msg("InfluxDB database ready")
	return nil
}

func (s *InfluxSink) checkVersion(version string) error {
	if s.minVersion == nil || version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		s.logger.Warn().Err(err).Str("version", version).Msg("Unparseable InfluxDB version, skipping check")
		return nil
	}
	if !s.minVersion.Check(v) {
		return fmt.Errorf("influxdb version %s does not satisfy %s", v, s.minVersion)
	}
	return nil
}

// WritePoints sends the batch in a single write request.
func (s *InfluxSink) WritePoints(ctx context.Context, points []models.MetricPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bp, err := s.batch(points)
	if err != nil {
		return err
	}

	if err := s.client.Write(bp); err != nil {
		return fmt.Errorf("influxdb write failed: %w", err)
	}
	return nil
}

func (s *InfluxSink) batch(points []models.MetricPoint) (client.BatchPoints, error) {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  s.database,
		Precision: constants.InfluxPrecision,
	})
	if err != nil {
		return nil, err
	}

	for _, p := range points {
		pt, err := client.NewPoint(p.Measurement, p.Tags.Map(), p.Fields.Map(), p.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid point %s for pid %d: %w", p.Measurement, p.Tags.PID, err)
		}
		bp.AddPoint(pt)
	}
	return bp, nil
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	return s.client.Close()
}

// CreateDatabaseStatement returns the InfluxQL statement creating name.
func CreateDatabaseStatement(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name)
	return `CREATE DATABASE "` + escaped + `"`
}
