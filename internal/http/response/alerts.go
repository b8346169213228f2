package response

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const DefaultAppName = "microserviceproduction"

// Alerts writes the X-<app>-alert / X-<app>-error notification headers read by the UI.
type Alerts struct {
	App string
}

func NewAlerts(app string) Alerts {
	app = strings.TrimSpace(app)
	if app == "" {
		app = DefaultAppName
	}
	return Alerts{App: app}
}

// EntityName is the qualified entity name, e.g. microserviceproductionFicheMedical.
func (a Alerts) EntityName(entity string) string {
	return a.app() + entity
}

func (a Alerts) Created(c *gin.Context, entity string, id int64) {
	a.alert(c, entity, "created", id)
}

func (a Alerts) Updated(c *gin.Context, entity string, id int64) {
	a.alert(c, entity, "updated", id)
}

func (a Alerts) Deleted(c *gin.Context, entity string, id int64) {
	a.alert(c, entity, "deleted", id)
}

func (a Alerts) Failure(c *gin.Context, entity, code string) {
	c.Header(a.header("error"), "error."+code)
	c.Header(a.header("params"), a.EntityName(entity))
}

func (a Alerts) alert(c *gin.Context, entity, action string, id int64) {
	c.Header(a.header("alert"), a.app()+"."+a.EntityName(entity)+"."+action)
	c.Header(a.header("params"), strconv.FormatInt(id, 10))
}

func (a Alerts) header(kind string) string {
	return "X-" + a.app() + "-" + kind
}

func (a Alerts) app() string {
	if a.App == "" {
		return DefaultAppName
	}
	return a.App
}
