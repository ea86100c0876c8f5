package stats

import (
	"fmt"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReduceOrdering(t *testing.T) {
	Convey("Given random samples of various sizes", t, func() {
		rng := rand.New(rand.NewSource(42))

		for _, n := range []int{1, 2, 3, 10, 999, 1000} {
			samples := make([]int64, n)
			for i := range samples {
				samples[i] = rng.Int63n(2000000) - 1000
			}

			l := Reduce(samples)

			Convey(fmt.Sprintf("Percentiles are non-decreasing and the mean is bounded for n=%d", n), func() {
				So(l.P5, ShouldBeGreaterThanOrEqualTo, l.Min)
				So(l.P50, ShouldBeGreaterThanOrEqualTo, l.P5)
				So(l.P80, ShouldBeGreaterThanOrEqualTo, l.P50)
				So(l.P90, ShouldBeGreaterThanOrEqualTo, l.P80)
				So(l.P95, ShouldBeGreaterThanOrEqualTo, l.P90)
				So(l.P99, ShouldBeGreaterThanOrEqualTo, l.P95)
				So(l.P999, ShouldBeGreaterThanOrEqualTo, l.P99)
				So(l.Max, ShouldBeGreaterThanOrEqualTo, l.P999)
				So(l.Mean, ShouldBeGreaterThanOrEqualTo, float64(l.Min))
				So(l.Mean, ShouldBeLessThanOrEqualTo, float64(l.Max))
			})
		}
	})
}

func TestReduceConstantInput(t *testing.T) {
	Convey("A constant sample sequence reduces to that constant everywhere", t, func() {
		samples := make([]int64, 100)
		for i := range samples {
			samples[i] = 12345
		}

		l := Reduce(samples)

		So(l.Min, ShouldEqual, 12345)
		So(l.P5, ShouldEqual, 12345)
		So(l.P50, ShouldEqual, 12345)
		So(l.P80, ShouldEqual, 12345)
		So(l.P90, ShouldEqual, 12345)
		So(l.P95, ShouldEqual, 12345)
		So(l.P99, ShouldEqual, 12345)
		So(l.P999, ShouldEqual, 12345)
		So(l.Max, ShouldEqual, 12345)
		So(l.Mean, ShouldEqual, 12345.0)
	})
}

func TestReducePercentileSelection(t *testing.T) {
	Convey("With samples 0..99 the percentile cut points are positional", t, func() {
		samples := make([]int64, 100)
		for i := range samples {
			samples[i] = int64(i)
		}

		l := Reduce(samples)

		So(l.Min, ShouldEqual, 0)
		So(l.P5, ShouldEqual, 5)
		So(l.P50, ShouldEqual, 50)
		So(l.P80, ShouldEqual, 80)
		So(l.P90, ShouldEqual, 90)
		So(l.P95, ShouldEqual, 95)
		So(l.P99, ShouldEqual, 99)
		So(l.P999, ShouldEqual, 99) // floor(100*0.999) = 99
		So(l.Max, ShouldEqual, 99)
		So(l.Mean, ShouldEqual, 49.5)
	})

	Convey("A single sample is every statistic at once", t, func() {
		l := Reduce([]int64{-7})

		So(l.Min, ShouldEqual, -7)
		So(l.P50, ShouldEqual, -7)
		So(l.P999, ShouldEqual, -7)
		So(l.Max, ShouldEqual, -7)
		So(l.Mean, ShouldEqual, -7.0)
	})
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	Convey("Reduce must not reorder the caller's samples", t, func() {
		samples := []int64{5, 1, 4, 2, 3}
		_ = Reduce(samples)
		So(samples, ShouldResemble, []int64{5, 1, 4, 2, 3})
	})
}

func TestReduceNegativeSentinels(t *testing.T) {
	Convey("Failure sentinels sort below real samples by signed order", t, func() {
		samples := []int64{100, -1, 200, -1, 300}
		l := Reduce(samples)

		So(l.Min, ShouldEqual, -1)
		So(l.Max, ShouldEqual, 300)
	})
}
