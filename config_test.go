package main

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfig(t *testing.T) {
	Convey("Given the default config", t, func() {
		c := NewConfig()

		Convey("It points at the local sqlite file", func() {
			So(c.Database, ShouldEqual, "sqlite")
			So(c.Server, ShouldEqual, ":8080")
			So(c.MaxDepth, ShouldBeGreaterThan, 0)
		})

		Convey("The environment overrides the defaults", func() {
			err := c.loadEnv(lookupFrom(map[string]string{
				"PORT":               "9000",
				"CATALOG_DATABASE":   "memory",
				"CATALOG_PER_PAGE":   "5",
				"CATALOG_LOG_PRETTY": "true",
			}))
			So(err, ShouldBeNil)
			So(c.Server, ShouldEqual, ":9000")
			So(c.Database, ShouldEqual, "memory")
			So(c.PerPage, ShouldEqual, 5)
			So(c.LogPretty, ShouldBeTrue)
		})

		Convey("A bad number in the environment is an error", func() {
			err := c.loadEnv(lookupFrom(map[string]string{"CATALOG_MAX_DEPTH": "deep"}))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "CATALOG_MAX_DEPTH")
		})

		Convey("Flags win over everything else", func() {
			So(c.loadEnv(lookupFrom(map[string]string{"CATALOG_DSN": "from-env"})), ShouldBeNil)
			So(c.parseFlags([]string{"-dsn", "from-flag", "-seed", "-max-depth", "12"}), ShouldBeNil)
			So(c.Dsn, ShouldEqual, "from-flag")
			So(c.Seed, ShouldBeTrue)
			So(c.MaxDepth, ShouldEqual, 12)
		})

		Convey("A non positive page size is rejected", func() {
			So(c.parseFlags([]string{"-per-page", "0"}), ShouldNotBeNil)
		})

		Convey("Unknown flags are rejected", func() {
			So(c.parseFlags([]string{"-nope"}), ShouldNotBeNil)
		})
	})
}

func TestLogger(t *testing.T) {
	Convey("Given a logger at warn level", t, func() {
		var buf bytes.Buffer
		c := NewConfig()
		c.LogLevel = "warn"
		log := newLogger(c, &buf)

		Convey("Info messages are dropped", func() {
			log.Info().Msg("hidden")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("Warnings are written as JSON", func() {
			log.Warn().Str("database", "sqlite").Msg("shown")
			var line map[string]interface{}
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
			So(line["message"], ShouldEqual, "shown")
			So(line["database"], ShouldEqual, "sqlite")
			So(line["level"], ShouldEqual, "warn")
		})
	})

	Convey("An unknown level falls back to info", t, func() {
		var buf bytes.Buffer
		c := NewConfig()
		c.LogLevel = "loud"
		log := newLogger(c, &buf)
		log.Debug().Msg("hidden")
		So(buf.Len(), ShouldEqual, 0)
		log.Info().Msg("shown")
		So(buf.Len(), ShouldBeGreaterThan, 0)
	})
}
