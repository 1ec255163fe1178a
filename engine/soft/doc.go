// SPDX-License-Identifier: EPL-2.0

// Package soft is a pure-Go implementation of the engine contract.
//
// The graph is mono float32 and renders in quanta of RenderQuantum frames.
// Each quantum the destination, every stream destination and every analyser
// with an input pull their inputs; a node's output is computed once per
// quantum and summed wherever it is connected, so fan-in is the mixing
// stage. Media inputs are downmixed and resampled to the context rate on the
// way in.
//
// A Context does not render by itself. Drive it with Render for offline work
// and tests, or with Run for real time:
//
//	ctx := soft.New(soft.Config{SampleRate: 48000})
//	go ctx.Run(context.Background())
//	defer ctx.Close()
//
// Config.IdleSuspend models platform power saving: once the destination has
// carried nothing but digital silence for that long, the context suspends
// itself and its clock stops until Resume.
package soft
