package conf

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

const testAppName = "testAppName"

var (
	customFlag  = NewStringFlag("custom_arg", "help", "default")
	sliceFlag   = NewSliceFlag("slice_arg", "help", "a", "b")
	envNameFlag = NewStringFlag("test_name", "", "")
)

func clearEnv() {
	// Clear all environment variables in the context of that test.
	logLevelFlag.clear()
	customFlag.clear()
}

func TestFlagEnvName(t *testing.T) {
	Convey("While using the Flag struct, it should construct a proper environment var name", t, func() {
		So(envNameFlag.envName(), ShouldEqual, "SLEEPSWEEP_TEST_NAME")
	})
}

func TestConf(t *testing.T) {
	Convey("While using the conf pkg", t, func() {
		clearEnv()
		defer clearEnv()

		SetAppName(testAppName)
		SetHelp("test help")

		Convey("Name and help should match the specified ones", func() {
			So(AppName(), ShouldEqual, testAppName)
			So(app.Help, ShouldEqual, "test help")
		})

		Convey("Log level defaults to error", func() {
			So(LogLevel(), ShouldEqual, logrus.ErrorLevel)
		})

		Convey("Log level can be fetched from env", func() {
			os.Setenv(logLevelFlag.envName(), "debug")
			So(ParseEnv(), ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.DebugLevel)
		})

		Convey("Custom flag value can be fetched from env", func() {
			So(customFlag.Value(), ShouldEqual, "default")

			os.Setenv(customFlag.envName(), "overridden")
			So(ParseEnv(), ShouldBeNil)
			So(customFlag.Value(), ShouldEqual, "overridden")
		})

		Convey("Dumped configuration contains the custom flag", func() {
			So(ParseEnv(), ShouldBeNil)
			So(DumpConfig(), ShouldContainSubstring, "SLEEPSWEEP_CUSTOM_ARG=")
		})
	})
}

func TestSliceFlag(t *testing.T) {
	Convey("While using SliceFlag", t, func() {
		defer sliceFlag.clear()

		Convey("Default elements are returned before parse", func() {
			isEnvParsed = false
			So(sliceFlag.Value(), ShouldResemble, []string{"a", "b"})
		})

		Convey("Comma separated env value is split into elements", func() {
			os.Setenv(sliceFlag.envName(), "x,y,z")
			So(ParseEnv(), ShouldBeNil)
			So(sliceFlag.Value(), ShouldResemble, []string{"x", "y", "z"})
		})
	})
}
