// Package camera implements the camera capability: choosing the front or back
// device, checking access, and capturing one still image.
//
// CommandCamera shells out to ffmpeg with the platform's video input (v4l2 on
// Linux, avfoundation on macOS) and reads the JPEG back from a temp file.
// FileCamera returns an existing image and backs the headless caption command.
package camera
