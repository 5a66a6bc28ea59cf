// Package whisper implements transcription.Provider against
// whisper-asr-webservice (POST /detect-language and POST /asr).
package whisper
