package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasjlepore/huawei-weight-export/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given the converter config loader", t, func() {
		clearEnv(t)

		Convey("When nothing is configured", func() {
			cfg, err := config.Load("")

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Format, ShouldEqual, "csv")
				So(cfg.LogLevel, ShouldEqual, "warn")
				So(cfg.LogFormat, ShouldEqual, "console")
				So(cfg.MetricsFile, ShouldBeEmpty)
				So(cfg.Summary, ShouldBeFalse)
			})
		})

		Convey("When a YAML file is given", func() {
			path := writeYAML(t, "format: parquet\nsummary: true\nmetrics_file: /tmp/w.prom\n")
			cfg, err := config.Load(path)

			Convey("Then its values override defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Format, ShouldEqual, "parquet")
				So(cfg.Summary, ShouldBeTrue)
				So(cfg.MetricsFile, ShouldEqual, "/tmp/w.prom")
				So(cfg.LogLevel, ShouldEqual, "warn")
			})

			Convey("And env vars override the file", func() {
				t.Setenv("WEIGHT_FORMAT", "SQLite")
				t.Setenv("WEIGHT_LOG_LEVEL", "debug")
				t.Setenv("WEIGHT_SUMMARY", "false")
				cfg, err := config.Load(path)

				So(err, ShouldBeNil)
				So(cfg.Format, ShouldEqual, "sqlite")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.Summary, ShouldBeFalse)
			})
		})

		Convey("When WEIGHT_CONFIG points at a file", func() {
			t.Setenv("WEIGHT_CONFIG", writeYAML(t, "format: fit\n"))
			cfg, err := config.Load("")

			Convey("Then it is used as the file layer", func() {
				So(err, ShouldBeNil)
				So(cfg.Format, ShouldEqual, "fit")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "load config file")
			})
		})

		Convey("When values are out of range", func() {
			t.Setenv("WEIGHT_FORMAT", "xlsx")
			t.Setenv("WEIGHT_LOG_FORMAT", "logfmt")
			_, err := config.Load("")

			Convey("Then every bad field is reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "format must be one of [csv parquet fit sqlite]")
				So(err.Error(), ShouldContainSubstring, "logformat must be one of [console json]")
			})
		})
	})
}

func TestValidateDefaults(t *testing.T) {
	Convey("Defaults are valid", t, func() {
		So(config.New().Validate(), ShouldBeNil)
	})
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weight.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config error: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONFIG", "FORMAT", "LOG_LEVEL", "LOG_FORMAT", "METRICS_FILE", "SUMMARY"} {
		t.Setenv(config.EnvPrefix+key, "")
		_ = os.Unsetenv(config.EnvPrefix + key)
	}
}

func TestValidateNormalizes(t *testing.T) {
	Convey("Given settings with mixed case and padding", t, func() {
		cfg := config.New()
		cfg.Format = " CSV "
		cfg.LogLevel = "Debug"
		cfg.LogFormat = "JSON"

		Convey("Then Validate accepts and normalizes them", func() {
			So(cfg.Validate(), ShouldBeNil)
			So(cfg.Format, ShouldEqual, "csv")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.LogFormat, ShouldEqual, "json")
		})
	})
}
