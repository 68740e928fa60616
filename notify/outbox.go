package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"hrms/models"
	"hrms/store"

	"github.com/sirupsen/logrus"
)

const dateLayout = "Jan 2, 2006"

// Outbox renders notification emails and queues them for the worker
type Outbox struct {
	store     store.NotificationStore
	users     store.UserStore
	templates map[string]*template.Template
	appName   string
	logger    logrus.FieldLogger
}

func NewOutbox(notifications store.NotificationStore, users store.UserStore, appName string, logger logrus.FieldLogger) (*Outbox, error) {
	parsed := make(map[string]*template.Template, len(emailTemplates))
	for name, content := range emailTemplates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		parsed[name] = tmpl
	}
	return &Outbox{
		store:     notifications,
		users:     users,
		templates: parsed,
		appName:   appName,
		logger:    logger.WithField("component", "outbox"),
	}, nil
}

type templateData map[string]interface{}

func (o *Outbox) enqueue(ctx context.Context, recipient *models.User, subject, name string, data templateData) error {
	tmpl, ok := o.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	data["Subject"] = subject
	data["AppName"] = o.appName
	data["Year"] = time.Now().Year()
	data["RecipientName"] = recipient.FirstName

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	n := &models.Notification{
		RecipientID: recipient.ID,
		Email:       recipient.Email,
		Subject:     subject,
		Template:    name,
		Body:        body.String(),
		Status:      models.NotificationPending,
	}
	if err := o.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("queue notification: %w", err)
	}

	o.logger.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"template":        name,
		"recipient_id":    recipient.ID,
	}).Debug("notification queued")
	return nil
}

// actorName resolves a display name, falling back to a generic one
func (o *Outbox) actorName(ctx context.Context, id uint) string {
	u, err := o.users.FindUserByID(ctx, id)
	if err != nil {
		return "A project leader"
	}
	return u.FullName()
}

func (o *Outbox) TaskAssigned(ctx context.Context, assignee *models.User, team *models.Team, task *models.Task) error {
	data := templateData{
		"TeamName":  team.Name,
		"TaskTitle": task.Title,
		"Priority":  task.Priority,
		"ActorName": o.actorName(ctx, task.AssignerID),
		"DueDate":   "",
	}
	if task.DueDate != nil {
		data["DueDate"] = task.DueDate.Format(dateLayout)
	}
	return o.enqueue(ctx, assignee, fmt.Sprintf("New task: %s", task.Title), TemplateTaskAssigned, data)
}

func (o *Outbox) LeaveReviewed(ctx context.Context, employee *models.User, leave *models.Leave, reviewer *models.User) error {
	data := templateData{
		"LeaveType": leave.Type,
		"StartDate": leave.StartDate.Format(dateLayout),
		"EndDate":   leave.EndDate.Format(dateLayout),
		"Status":    leave.Status,
		"Note":      leave.ReviewNote,
		"ActorName": reviewer.FullName(),
	}
	return o.enqueue(ctx, employee, fmt.Sprintf("Leave request %s", leave.Status), TemplateLeaveReviewed, data)
}

func (o *Outbox) RemovedFromTeam(ctx context.Context, user *models.User, team *models.Team) error {
	data := templateData{"TeamName": team.Name}
	return o.enqueue(ctx, user, fmt.Sprintf("Removed from %s", team.Name), TemplateRemovedFromTeam, data)
}
