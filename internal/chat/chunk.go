// Package chat turns a streamed LLM answer into typed chunks for the playground editor.
//
// The first ```python fenced block is announced with code_start/code_end so the client
// can route its tokens into the editor. Everything after that block is plain tokens.
package chat

// ChunkType names a streamed chunk.
type ChunkType string

const (
	ChunkStart     ChunkType = "start"
	ChunkToken     ChunkType = "token"
	ChunkCodeStart ChunkType = "code_start"
	ChunkCodeEnd   ChunkType = "code_end"
	ChunkError     ChunkType = "error"
	ChunkDone      ChunkType = "done"
)

// Finish reasons carried by done chunks.
const (
	FinishStop      = "stop"
	FinishUserAbort = "user_abort"
)

// Chunk is one server-sent event on the chat stream. Only the fields of its Type are set.
type Chunk struct {
	Type         ChunkType `json:"type"`
	Token        string    `json:"token,omitempty"`
	Role         string    `json:"role,omitempty"`
	Index        *int      `json:"index,omitempty"`
	Language     string    `json:"language,omitempty"`
	FinishReason string    `json:"finish_reason,omitempty"`
	Error        string    `json:"error,omitempty"`
	Code         string    `json:"code,omitempty"`
}

func Start() Chunk {
	return Chunk{Type: ChunkStart}
}

func Token(token string, index int) Chunk {
	return Chunk{Type: ChunkToken, Token: token, Role: "assistant", Index: &index}
}

func CodeStart(language string) Chunk {
	return Chunk{Type: ChunkCodeStart, Language: language}
}

func CodeEnd() Chunk {
	return Chunk{Type: ChunkCodeEnd}
}

func Done(reason string) Chunk {
	return Chunk{Type: ChunkDone, FinishReason: reason}
}

// Error builds an error chunk; code defaults to "internal_error".
func Error(msg, code string) Chunk {
	if code == "" {
		code = "internal_error"
	}
	return Chunk{Type: ChunkError, Error: msg, Code: code}
}
