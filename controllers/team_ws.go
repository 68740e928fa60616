package controller

import (
	"time"

	"hrms/events"
	"hrms/metrics"
	"hrms/middleware"
	"hrms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const wsPingInterval = 30 * time.Second

type TeamEventsController struct {
	Teams  *services.TeamService
	Hub    *events.Hub
	Logger logrus.FieldLogger
}

func NewTeamEventsController(teams *services.TeamService, hub *events.Hub, logger logrus.FieldLogger) *TeamEventsController {
	return &TeamEventsController{Teams: teams, Hub: hub, Logger: logger.WithField("component", "team_events")}
}

// Upgrade admits team members to the event stream. It runs after Protected.
func (ec *TeamEventsController) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}
	if err := ec.Teams.CanSubscribe(c.UserContext(), middleware.CurrentUser(c), teamID); err != nil {
		return handleError(c, "subscribe_team", err)
	}
	c.Locals("teamID", teamID)
	return c.Next()
}

// Stream is the websocket handler. It writes team events until the client goes away or the team is deleted.
func (ec *TeamEventsController) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		teamID, _ := conn.Locals("teamID").(uint)
		userID, _ := conn.Locals("userID").(uint)
		log := ec.Logger.WithFields(logrus.Fields{"team_id": teamID, "user_id": userID})

		sub := ec.Hub.Subscribe(teamID)
		metrics.AddEventSubscribers(1)
		defer func() {
			sub.Cancel()
			metrics.AddEventSubscribers(-1)
		}()
		log.Debug("Event stream opened")

		// Reads only detect the client closing the connection.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(wsPingInterval)
		defer ping.Stop()

		for {
			select {
			case event, ok := <-sub.Events:
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "team closed"))
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.WithError(err).Debug("Event write failed")
					return
				}
			case <-ping.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				log.Debug("Event stream closed by client")
				return
			}
		}
	})
}
