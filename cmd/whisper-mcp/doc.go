// Command whisper-mcp serves speech-to-text transcription as an MCP tool.
//
// Usage:
//
//	whisper-mcp [serve]                      run the MCP + REST server (default)
//	whisper-mcp transcribe --path talk.m4a   run one transcription and print the outcome JSON
//	whisper-mcp token --subject ci           mint a bearer token for server.auth.jwt_secret
//	whisper-mcp version                      print build information
//
// Configuration comes from config.yml, .env files and the environment;
// WHISPER_ASR_URL, FFMPEG_API_URL, MCP_HOST and MCP_PORT are the usual
// overrides.
package main
