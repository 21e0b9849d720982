package routes

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"

	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsStream upgrades to a websocket and relays the caller's Redis
// event channel (chat messages, booking/offer updates) until the client
// disconnects. Browsers cannot set headers on websocket dials, so the
// access token rides in the token query parameter.
func EventsStream(ctx iris.Context) {
	tokenStr := ctx.URLParam("token")
	if tokenStr == "" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthenticated", "missing token", ctx)
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("ACCESS_TOKEN_SECRET")), nil
	})
	if err != nil || !token.Valid {
		utils.CreateError(iris.StatusUnauthorized, "Unauthenticated", "invalid token", ctx)
		return
	}

	idClaim, ok := claims["ID"].(float64)
	if !ok || idClaim <= 0 {
		utils.CreateError(iris.StatusUnauthorized, "Unauthenticated", "invalid token subject", ctx)
		return
	}
	userID := uint(idClaim)

	conn, err := upgrader.Upgrade(ctx.ResponseWriter(), ctx.Request(), nil)
	if err != nil {
		log.Printf("websocket upgrade failed for user %d: %v", userID, err)
		return
	}
	defer conn.Close()

	streamCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := storage.Redis.Subscribe(streamCtx, services.UserChannel(userID))
	defer pubsub.Close()

	// Reader loop only to detect close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-streamCtx.Done():
			return
		case msg, open := <-ch:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
