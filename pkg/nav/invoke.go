package nav

import (
	"context"
	"fmt"

	"github.com/viaduct-ui/viaduct/pkg/route"
)

// Hook panics are contained and converted into aborts so that one
// misbehaving route cannot take the controller down mid-transition.

func invokeBeforeLoad(ctx context.Context, fn func(context.Context, route.BeforeLoadEvent) route.Decision, ev route.BeforeLoadEvent) (d route.Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = route.Abort(fmt.Errorf("beforeLoad hook panicked: %v", r))
		}
	}()
	return fn(ctx, ev)
}

func invokeLifecycle(ctx context.Context, fn func(context.Context, route.LifecycleEvent) error, ev route.LifecycleEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return fn(ctx, ev)
}

func invokeAfterRender(ctx context.Context, fn func(context.Context, route.LifecycleEvent), ev route.LifecycleEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	fn(ctx, ev)
	return nil
}
