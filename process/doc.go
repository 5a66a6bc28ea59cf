// Package process runs external binaries under a context, capturing their
// output. A canceled context sends SIGTERM to the whole process group and
// escalates to SIGKILL after the grace period.
package process
