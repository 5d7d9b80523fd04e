package schedule

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scheduler", func() {
	var (
		s     *Scheduler
		calls []string
	)

	record := func(label string) func() {
		return func() { calls = append(calls, label) }
	}

	BeforeEach(func() {
		s = New()
		calls = nil
	})

	It("should start at time zero with nothing pending", func() {
		Expect(s.Now()).To(Equal(time.Duration(0)))
		Expect(s.Pending()).To(Equal(0))
		_, ok := s.NextDue()
		Expect(ok).To(BeFalse())
	})

	It("should run tasks in due order", func() {
		s.After(300*time.Millisecond, record("c"))
		s.After(100*time.Millisecond, record("a"))
		s.After(200*time.Millisecond, record("b"))

		due, ok := s.NextDue()
		Expect(ok).To(BeTrue())
		Expect(due).To(Equal(100 * time.Millisecond))

		Expect(s.Advance(time.Second)).To(Equal(3))
		Expect(calls).To(Equal([]string{"a", "b", "c"}))
		Expect(s.Now()).To(Equal(time.Second))
	})

	It("should run tasks with equal due time in scheduling order", func() {
		s.After(time.Second, record("first"))
		s.After(time.Second, record("second"))
		s.After(time.Second, record("third"))

		s.Advance(time.Second)

		Expect(calls).To(Equal([]string{"first", "second", "third"}))
	})

	It("should not run tasks before they are due", func() {
		s.After(time.Second, record("tick"))

		Expect(s.Advance(999 * time.Millisecond)).To(Equal(0))
		Expect(calls).To(BeEmpty())
		Expect(s.Pending()).To(Equal(1))

		Expect(s.Advance(time.Millisecond)).To(Equal(1))
		Expect(calls).To(Equal([]string{"tick"}))
	})

	It("should expose the task due time as Now inside the callback", func() {
		var seen time.Duration
		s.After(250*time.Millisecond, func() { seen = s.Now() })

		s.Advance(time.Second)

		Expect(seen).To(Equal(250 * time.Millisecond))
	})

	It("should cancel pending tasks", func() {
		id := s.After(time.Second, record("cancelled"))
		s.After(time.Second, record("kept"))

		Expect(s.Cancel(id)).To(BeTrue())
		Expect(s.Cancel(id)).To(BeFalse())
		Expect(s.Pending()).To(Equal(1))

		s.Advance(2 * time.Second)
		Expect(calls).To(Equal([]string{"kept"}))
	})

	It("should not cancel a task that already ran", func() {
		id := s.After(0, record("now"))
		s.Advance(0)

		Expect(calls).To(Equal([]string{"now"}))
		Expect(s.Cancel(id)).To(BeFalse())
		Expect(s.Cancel(TaskID(0))).To(BeFalse())
	})

	It("should run repeating tasks rescheduled from a callback", func() {
		var tick func()
		tick = func() {
			calls = append(calls, s.Now().String())
			s.After(time.Second, tick)
		}
		s.After(time.Second, tick)

		Expect(s.Advance(3500 * time.Millisecond)).To(Equal(3))
		Expect(calls).To(Equal([]string{"1s", "2s", "3s"}))
		Expect(s.Pending()).To(Equal(1))
	})

	It("should let a callback cancel a later task", func() {
		var later TaskID
		s.After(time.Second, func() { s.Cancel(later) })
		later = s.After(2*time.Second, record("later"))

		s.Advance(3 * time.Second)

		Expect(calls).To(BeEmpty())
		Expect(s.Pending()).To(Equal(0))
	})

	It("should ignore attempts to move backwards", func() {
		s.AdvanceTo(5 * time.Second)
		s.After(time.Second, record("a"))

		Expect(s.AdvanceTo(time.Second)).To(Equal(0))
		Expect(s.Now()).To(Equal(5 * time.Second))
		Expect(s.AdvanceTo(6 * time.Second)).To(Equal(1))
	})

	It("should panic when scheduling in the past", func() {
		Expect(func() { s.After(-time.Millisecond, record("x")) }).To(Panic())
	})
})
