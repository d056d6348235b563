package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Maheshwaran325/-Voice-Evaluation-Microservice/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the documented defaults should apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.UploadDir, ShouldEqual, "uploads")
			So(cfg.QueueSize, ShouldEqual, 1024)
			So(cfg.Thresholds.PronunciationMinConfidence, ShouldEqual, 0.6)
			So(cfg.Thresholds.PacingLowWPM, ShouldEqual, 90)
			So(cfg.Thresholds.PacingHighWPM, ShouldEqual, 150)
			So(cfg.Thresholds.PauseMinMS, ShouldEqual, 500)
			So(cfg.Thresholds.PauseLongMS, ShouldEqual, 2000)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VOICEEVAL_ADDR", ":9090")
	t.Setenv("VOICEEVAL_QUEUE_SIZE", "64")
	t.Setenv("VOICEEVAL_THRESHOLDS_PAUSE_MIN_MS", "750")

	Convey("Given environment variable overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the env values should win", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.QueueSize, ShouldEqual, 64)
			So(cfg.Thresholds.PauseMinMS, ShouldEqual, 750)
		})

		Convey("And untouched keys should keep defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Thresholds.PauseLongMS, ShouldEqual, 2000)
		})
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "addr: \":7070\"\nthresholds:\n  pacing_low_wpm: 100\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("VOICEEVAL_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values should layer over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.Thresholds.PacingLowWPM, ShouldEqual, 100)
		})
	})
}

func TestLoadEnvOutranksFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("VOICEEVAL_CONFIG", path)
	t.Setenv("VOICEEVAL_ADDR", ":6060")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env should win", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
		})
	})
}

func TestLoadInvalidThresholds(t *testing.T) {
	t.Setenv("VOICEEVAL_THRESHOLDS_PACING_LOW_WPM", "200")

	Convey("Given inverted pacing thresholds", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading should fail with ErrInvalidConfig", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadInvalidPauseOrdering(t *testing.T) {
	t.Setenv("VOICEEVAL_THRESHOLDS_PAUSE_MIN_MS", "1500")

	Convey("Given a pause minimum above the medium boundary", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading should fail with ErrInvalidConfig", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadInvalidQueueSize(t *testing.T) {
	t.Setenv("VOICEEVAL_QUEUE_SIZE", "0")

	Convey("Given a non-positive queue size", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading should fail with ErrInvalidConfig", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("VOICEEVAL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	Convey("Given a bogus config file path", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading should fail with ErrLoadConfig", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}
