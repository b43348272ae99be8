package services

import "strconv"

// LiveBroadcaster — подмножество live.Hub, нужное сервисам для
// уведомлений об изменении данных.
type LiveBroadcaster interface {
	BroadcastToRoom(roomID string, messageType string, payload interface{})
}

// tournamentRoom — имя комнаты хаба для турнира.
func tournamentRoom(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}
