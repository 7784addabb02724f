package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket.
// O feed só entende ping; qualquer outro tipo é ignorado.
type ClientMsg struct {
	Type string `json:"type"` // ping
}
