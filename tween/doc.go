// Package tween is a keyframe animation engine that drives property changes
// on arbitrary targets over time.
//
// # Core Components
//
//   - [Track]: the keyframes of one property. Decides once how the values
//     interpolate (number, vector, matrix, colour, gradient or step) and
//     evaluates the track at a progress percent, linearly or along a
//     Catmull-Rom spline.
//
//   - [Clip]: turns scheduler time into eased progress for one callback,
//     with delay, loop and pause support.
//
//   - [Animator]: the builder bound to one target. Collects keyframes per
//     property with When and creates one Clip per Track on Start.
//
//   - [Animation]: the frame-loop scheduler. Steps every clip once per
//     frame, removes finished clips, fires deferred lifecycle events and
//     then updates the [Stage].
//
// # Basic Usage
//
//	loop := tween.NewFrameLoop(16 * time.Millisecond)
//	anim := tween.NewAnimation(tween.WithFrames(loop), tween.WithStage(stage))
//	anim.Start()
//
//	target := map[string]any{"x": 0.0, "fill": "#ff0000"}
//	tween.Animate(anim, target, tween.AnimatorOptions[map[string]any]{}).
//		When(500*time.Millisecond, map[string]any{"x": 100.0, "fill": "#0000ff"}).
//		Done(func() { log.Println("done") }).
//		Start(easing.Named(easing.CubicOut), false)
//
//	loop.Run(ctx)
//
// Everything the scheduler calls runs on the frame loop goroutine; use
// [FrameLoop.Post] to reach it from elsewhere.
package tween
