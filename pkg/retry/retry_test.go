package retry

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var errFlaky = errors.New("flaky")

// fastConfig keeps the waits effectively zero without triggering the
// default normalization in Do.
func fastConfig(attempts int) Config {
	return Config{MaxAttempts: attempts, BaseWait: time.Nanosecond, MaxWait: time.Nanosecond}
}

var _ = Describe("Do", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("returns nil on first success without retrying", func() {
		calls := 0
		err := Do(ctx, fastConfig(6), func(_ context.Context) error {
			calls++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("retries until success", func() {
		calls := 0
		err := Do(ctx, fastConfig(6), func(_ context.Context) error {
			calls++
			if calls < 3 {
				return errFlaky
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(3))
	})

	It("gives up after the attempt budget and keeps the last error", func() {
		calls := 0
		err := Do(ctx, fastConfig(4), func(_ context.Context) error {
			calls++
			return errFlaky
		})
		Expect(err).To(MatchError(errFlaky))
		Expect(err.Error()).To(ContainSubstring("after 4 attempts"))
		Expect(calls).To(Equal(4))
	})

	It("stops when the context is canceled mid-attempt", func() {
		cancelCtx, cancel := context.WithCancel(ctx)
		calls := 0
		err := Do(cancelCtx, fastConfig(6), func(_ context.Context) error {
			calls++
			cancel()
			return errFlaky
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(calls).To(Equal(1))
	})

	It("aborts instead of sleeping when the context is already canceled", func() {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		calls := 0
		err := Do(cancelCtx, Config{MaxAttempts: 2, BaseWait: time.Hour, MaxWait: time.Hour}, func(_ context.Context) error {
			calls++
			return errFlaky
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(calls).To(Equal(1))
	})

	It("substitutes defaults for a zero config", func() {
		err := Do(ctx, Config{}, func(_ context.Context) error {
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("wait", func() {
	It("stays within the doubling ceiling", func() {
		cfg := Config{BaseWait: time.Second, MaxWait: time.Minute}
		for attempt := 0; attempt < 10; attempt++ {
			w := cfg.wait(attempt)
			Expect(w).To(BeNumerically(">=", 0))
			Expect(w).To(BeNumerically("<=", time.Minute))
		}
	})

	It("caps the ceiling at MaxWait", func() {
		cfg := Config{BaseWait: time.Second, MaxWait: 2 * time.Second}
		for i := 0; i < 50; i++ {
			Expect(cfg.wait(30)).To(BeNumerically("<=", 2*time.Second))
		}
	})

	It("returns zero for a non-positive ceiling", func() {
		cfg := Config{BaseWait: 0, MaxWait: 0}
		Expect(cfg.wait(3)).To(Equal(time.Duration(0)))
	})
})

var _ = Describe("DefaultConfig", func() {
	It("matches the documented bounds", func() {
		cfg := DefaultConfig()
		Expect(cfg.MaxAttempts).To(Equal(6))
		Expect(cfg.BaseWait).To(Equal(1 * time.Second))
		Expect(cfg.MaxWait).To(Equal(60 * time.Second))
	})
})
