// Package httpclient provides the outbound HTTP adapter shared by every
// remote collaborator of the transcription pipeline: the audio URL fetcher,
// the ffmpeg conversion service, and the whisper ASR service.
//
// Each collaborator owns one Adapter configured with its own timeout. The
// adapter always drains and closes response bodies, classifies non-2xx
// statuses into typed *Error values that keep the upstream body, and encodes
// multipart uploads.
//
//	asr, _ := httpclient.New(httpclient.Config{
//	    Name:    "whisper-asr",
//	    BaseURL: "http://localhost:9000",
//	    Timeout: 10 * time.Minute,
//	})
//
//	resp, err := asr.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/asr",
//	    Query:  map[string]string{"output": "srt"},
//	    Body: &httpclient.MultipartBody{Files: []httpclient.FileField{{
//	        FieldName: "audio_file", FileName: "audio.mp3",
//	        ContentType: "audio/mpeg", Data: mp3,
//	    }}},
//	})
package httpclient
