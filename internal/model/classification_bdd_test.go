package model_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"trafficaqi/internal/model"
)

func TestClassificationSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AQI band and peak-hour classification suite")
}

var _ = Describe("AQI category classification", func() {
	DescribeTable("ClassifyAQI maps bands per the configured boundaries",
		func(aqi int, want model.AQICategory) {
			Expect(model.ClassifyAQI(aqi)).To(Equal(want))
		},
		Entry("lower edge of Good", 0, model.AQIGood),
		Entry("upper edge of Good", 50, model.AQIGood),
		Entry("lower edge of Moderate", 51, model.AQIModerate),
		Entry("upper edge of Moderate", 100, model.AQIModerate),
		Entry("lower edge of UnhealthySensitive", 101, model.AQIUnhealthySensitive),
		Entry("upper edge of UnhealthySensitive", 150, model.AQIUnhealthySensitive),
		Entry("lower edge of Unhealthy", 151, model.AQIUnhealthy),
		Entry("upper edge of Unhealthy", 200, model.AQIUnhealthy),
		Entry("lower edge of VeryUnhealthy", 201, model.AQIVeryUnhealthy),
		Entry("upper edge of VeryUnhealthy", 300, model.AQIVeryUnhealthy),
		Entry("lower edge of Hazardous", 301, model.AQIHazardous),
	)
})

var _ = Describe("Peak-hour predicate", func() {
	clock := model.NewLocalClock(7, nil) // default set {6,7,8,9,16,17,18,19}

	DescribeTable("IsPeakHour is true iff the local hour is in the configured set",
		func(utcHour int, want bool) {
			ts := time.Date(2025, 1, 1, utcHour, 0, 0, 0, time.UTC)
			Expect(clock.IsPeakHour(ts)).To(Equal(want))
		},
		Entry("local 05:00, just before morning peak", 22, false),
		Entry("local 06:00, morning peak opens", 23, true),
		Entry("local 09:00, last morning peak hour", 2, true),
		Entry("local 10:00, morning peak closed (half-open)", 3, false),
		Entry("local 15:00, before evening peak", 8, false),
		Entry("local 16:00, evening peak opens", 9, true),
		Entry("local 19:00, last evening peak hour", 12, true),
		Entry("local 20:00, evening peak closed (half-open)", 13, false),
	)

	It("honors a custom configured set instead of a contiguous range", func() {
		custom := model.NewLocalClock(7, []int{3, 11})
		ts3 := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)  // local 03:00
		ts11 := time.Date(2025, 1, 2, 4, 0, 0, 0, time.UTC)  // local 11:00
		ts4 := time.Date(2025, 1, 1, 21, 0, 0, 0, time.UTC)  // local 04:00
		Expect(custom.IsPeakHour(ts3)).To(BeTrue())
		Expect(custom.IsPeakHour(ts11)).To(BeTrue())
		Expect(custom.IsPeakHour(ts4)).To(BeFalse())
	})
})
