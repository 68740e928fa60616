package notify

// Template names
const (
	TemplateTaskAssigned    = "task_assigned"
	TemplateLeaveReviewed   = "leave_reviewed"
	TemplateRemovedFromTeam = "removed_from_team"
)

const emailLayoutHead = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .highlight { font-weight: bold; color: #3498db; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>`

const emailLayoutFoot = `
    <div class="footer">
        <p>This is an automated message from {{.AppName}}.</p>
        <p>&copy; {{.Year}} {{.AppName}}. All rights reserved.</p>
    </div>
</body>
</html>`

// Embedded email templates
var emailTemplates = map[string]string{
	TemplateTaskAssigned: emailLayoutHead + `
    <div class="header">
        <h2>New task in {{.TeamName}}</h2>
    </div>

    <div class="content">
        <p>Hello {{.RecipientName}},</p>
        <p>{{.ActorName}} assigned you a task:</p>
        <p class="highlight">{{.TaskTitle}}</p>
        <p>Priority: {{.Priority}}{{if .DueDate}} &middot; Due {{.DueDate}}{{end}}</p>
    </div>` + emailLayoutFoot,

	TemplateLeaveReviewed: emailLayoutHead + `
    <div class="header">
        <h2>Your leave request was {{.Status}}</h2>
    </div>

    <div class="content">
        <p>Hello {{.RecipientName}},</p>
        <p>Your {{.LeaveType}} leave from {{.StartDate}} to {{.EndDate}} was <span class="highlight">{{.Status}}</span> by {{.ActorName}}.</p>
        {{if .Note}}<p>Note: {{.Note}}</p>{{end}}
    </div>` + emailLayoutFoot,

	TemplateRemovedFromTeam: emailLayoutHead + `
    <div class="header">
        <h2>You were removed from {{.TeamName}}</h2>
    </div>

    <div class="content">
        <p>Hello {{.RecipientName}},</p>
        <p>A project leader removed you from <span class="highlight">{{.TeamName}}</span>. Ask the leader for a new join code if this was a mistake.</p>
    </div>` + emailLayoutFoot,
}
