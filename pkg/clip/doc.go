// ABOUTME: Package clip loads audio files into driver buffers and plays them
// ABOUTME: Entry point for the subsystem lifecycle: Init, Load, Play, Unload, Quit
// Package clip provides blocking playback of whole audio clips.
//
// A Subsystem owns one playback device and its rendering context. Each loaded
// Clip owns a decoded file, a driver buffer and its own source, so loading a
// second clip never disturbs the first.
//
// Example:
//
//	sys, err := clip.Init(clip.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sys.Quit()
//
//	c, err := sys.Load("chime.wav")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sys.Unload(c)
//
//	if err := sys.Play(context.Background(), c); err != nil {
//		log.Fatal(err)
//	}
//
// Every setup step that can fail is reported as a *StageError. Resources
// acquired before the failing step are released in reverse order before the
// error is returned.
package clip
