package service_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/katube/audio-archiver/internal/service"
)

var _ = Describe("WorkerPool", func() {
	It("runs every submitted task", func() {
		pool := service.NewWorkerPool(3)
		defer pool.Stop()

		var counter int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			pool.Submit(func() {
				defer wg.Done()
				atomic.AddInt32(&counter, 1)
			})
		}

		wg.Wait()
		Expect(atomic.LoadInt32(&counter)).To(Equal(int32(20)))
	})

	It("never runs more tasks than its capacity at once", func() {
		pool := service.NewWorkerPool(2)
		defer pool.Stop()

		var running, peak int32
		release := make(chan struct{})
		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)
			pool.Submit(func() {
				defer wg.Done()
				current := atomic.AddInt32(&running, 1)
				for {
					observed := atomic.LoadInt32(&peak)
					if current <= observed || atomic.CompareAndSwapInt32(&peak, observed, current) {
						break
					}
				}
				<-release
				atomic.AddInt32(&running, -1)
			})
		}

		time.Sleep(50 * time.Millisecond)
		Expect(atomic.LoadInt32(&running)).To(Equal(int32(2)))

		close(release)
		wg.Wait()
		Expect(atomic.LoadInt32(&peak)).To(Equal(int32(2)))
	})

	It("drops tasks submitted after Stop", func() {
		pool := service.NewWorkerPool(1)
		pool.Stop()

		executed := make(chan struct{}, 1)
		pool.Submit(func() {
			executed <- struct{}{}
		})

		Consistently(executed, 100*time.Millisecond).ShouldNot(Receive())
	})

	It("waits for running tasks on Stop", func() {
		pool := service.NewWorkerPool(1)

		var finished atomic.Bool
		started := make(chan struct{})
		pool.Submit(func() {
			close(started)
			time.Sleep(50 * time.Millisecond)
			finished.Store(true)
		})

		<-started
		pool.Stop()
		Expect(finished.Load()).To(BeTrue())
	})
})
