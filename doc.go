// SPDX-License-Identifier: EPL-2.0

// Package audmix is a software audio mixer: it manages capture and playback
// tracks against audio devices, buffers streaming audio through bounded
// queues, applies per-track volume and multiplexes file playback across a
// pool of output tracks.
//
// # Quick Start
//
//	host := device.NullHost{} // or a real backend implementing device.Host
//
//	out1, _ := track.NewOutput("o1", host, track.OutputConfig{})
//	out2, _ := track.NewOutput("o2", host, track.OutputConfig{})
//	in1, _ := track.NewInput("i1", host, track.InputConfig{})
//
//	mixer := audmix.NewMixer(out1, out2, in1)
//
//	t, err := mixer.PlayFile("song.wav", track.PlayOptions{})
//	if t == nil && err == nil {
//	    // all output tracks busy
//	}
//
//	defer func() {
//	    mixer.StopOutputs()
//	    mixer.StopInputs()
//	}()
//
// # Architecture
//
// Data flows file -> decode -> channel match -> resample -> chunk split ->
// bounded queue -> stream runner -> device. Capture is the mirror image:
// device -> stream runner -> last-chunk slot -> Read caller.
//
// Each open track runs one background goroutine (its stream runner) which
// exclusively owns the device stream; all cross-goroutine traffic goes
// through the track package's bounded queue or atomic slot. See the track,
// device, decode and audio packages for the individual layers.
package audmix
