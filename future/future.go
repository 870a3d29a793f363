package future

import (
	"fmt"
	"sync"
)

type Future[T any] interface {
	Get() (T, error)
	GetOrPanic() T
	// Done is closed once the value is available.
	Done() <-chan struct{}
	String() string
}

type future[T any] struct {
	f      func() (T, error)
	lazy   bool
	once   sync.Once
	done   chan struct{}
	result T
	err    error
	// panicked holds a value recovered from f, re-raised by every Get.
	panicked any
}

func (f *future[T]) run() {
	f.once.Do(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.panicked = r
			}
		}()

		f.result, f.err = f.f()
	})
}

// Get blocks until the value is available. A panic raised while computing it
// is raised again in the caller.
func (f *future[T]) Get() (T, error) {
	if f.lazy {
		f.run()
	}

	<-f.done
	if f.panicked != nil {
		panic(f.panicked)
	}

	return f.result, f.err
}

func (f *future[T]) GetOrPanic() T {
	v, err := f.Get()
	if err != nil {
		panic(err)
	}

	return v
}

func (f *future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *future[T]) String() string {
	return fmt.Sprint(f.GetOrPanic())
}

func newFuture[T any](f func() (T, error), lazy bool) *future[T] {
	return &future[T]{
		f:    f,
		lazy: lazy,
		done: make(chan struct{}),
	}
}

// FromFuncErr evaluates f once, on the first call to Get.
func FromFuncErr[T any](f func() (T, error)) Future[T] {
	return newFuture(f, true)
}

func FromFunc[T any](f func() T) Future[T] {
	return FromFuncErr(func() (T, error) {
		return f(), nil
	})
}

func From[T any](a T) Future[T] {
	return FromFunc(func() T {
		return a
	})
}

// Go starts f on a new goroutine right away. f never runs anywhere else.
func Go[T any](f func() (T, error)) Future[T] {
	fut := newFuture(f, false)
	go fut.run()
	return fut
}
