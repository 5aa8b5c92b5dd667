package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gitlab.com/dirk.krummacker/contact-book/internal/contacts"
	"gitlab.com/dirk.krummacker/contact-book/internal/logger"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/validation"
	api "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// birthdayLayout is the format of birthdays in responses.
const birthdayLayout = "01/02/2006"

// contactsHandler serves the /contacts endpoints.
type contactsHandler struct {
	contacts *contacts.Service
	logger   *slog.Logger
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. All /contacts
// endpoints require an API token of a user. If requestLogging is false, gin does not log every
// HTTP request. Logged URLs never contain the API token.
func SetupHttpRouter(log *slog.Logger, service *contacts.Service, users UserFinder, requestLogging bool) *gin.Engine {
	router := gin.New()
	if requestLogging {
		router.Use(gin.LoggerWithFormatter(accessLog))
	} else {
		log.Info("turning off HTTP request logging")
	}
	router.Use(gin.Recovery())
	h := &contactsHandler{
		contacts: service,
		logger:   log.With(slog.String("component", "http")),
	}
	router.GET("/ping", ping)

	group := router.Group("/contacts", authenticate(h.logger, users))
	group.GET("", h.findContacts)
	group.POST("", h.createContact)
	group.GET("/birthdays", h.findBirthdays)
	group.GET("/:id", h.findContactByID)
	group.PATCH("/:id", h.updateContactByID)
	group.PUT("/:id", h.updateContactByID)
	group.DELETE("/:id", h.deleteContactByID)
	return router
}

// ping answers liveness probes.
//
//	> curl http://localhost:8080/ping
func ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// findContacts responds with one page of the caller's contacts, sorted by id.
//
// The URL parameter 'page' selects the page, starting at 1 (the default). The response contains
// links to the first, last, previous, and next page and the page metadata.
//
// REST API calls:
//
//	> curl -H "Authorization: Bearer $TOKEN" "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?page=2&api_token=$TOKEN"
func (h *contactsHandler) findContacts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid page parameter"})
		return
	}
	result, err := h.contacts.List(c.Request.Context(), currentUser(c), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	lastPage := result.LastPage()
	links := &api.Links{
		First: pageLink(1),
		Last:  pageLink(lastPage),
	}
	if page > 1 {
		links.Prev = pageLink(min(page-1, lastPage))
	}
	if page < lastPage {
		links.Next = pageLink(page + 1)
	}
	c.IndentedJSON(http.StatusOK, api.ContactCollection{
		Data:  toResources(result.Contacts),
		Links: links,
		Meta: &api.Meta{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     result.Size,
			Total:       result.Total,
		},
	})
}

// findBirthdays responds with the caller's contacts that have their birthday in the current
// month.
//
//	> curl -H "Authorization: Bearer $TOKEN" http://localhost:8080/contacts/birthdays
func (h *contactsHandler) findBirthdays(c *gin.Context) {
	result, err := h.contacts.Birthdays(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, api.ContactCollection{Data: toResources(result)})
}

// createContact creates a contact owned by the caller from the request's JSON or form values.
// It responds with the new contact and its link.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"name": "Erika Mustermann", "email": "erika@example.com", "birthday": "05/14/1988", "company": "ACME"}'
func (h *contactsHandler) createContact(c *gin.Context) {
	var input api.ContactInput
	if err := bindInput(c, &input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		return
	}
	contact, err := h.contacts.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, toEnvelope(contact))
}

// findContactByID responds with the contact whose ID value matches the id parameter of the
// request URL.
//
// Example REST API call:
//
//	> curl -H "Authorization: Bearer $TOKEN" http://localhost:8080/contacts/56
func (h *contactsHandler) findContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toEnvelope(contact))
}

// updateContactByID replaces name, email, birthday, and company of the contact whose ID value
// matches the id parameter of the request URL. All four values are required.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "PATCH" --include --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"name": "Rudi Völler", "email": "rudi@example.com", "birthday": "04/13/1960", "company": "DFB"}'
func (h *contactsHandler) updateContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input api.ContactInput
	if err := bindInput(c, &input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		return
	}
	contact, err := h.contacts.Update(c.Request.Context(), currentUser(c), id, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, toEnvelope(contact))
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request
// URL. It responds with an empty body.
//
// Example REST API call:
//
//	> curl -H "Authorization: Bearer $TOKEN" http://localhost:8080/contacts/56 --request "DELETE"
func (h *contactsHandler) deleteContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.contacts.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail translates an error of the contact operations into the HTTP response. Unexpected errors
// are logged with the request logger set up by authenticate.
func (h *contactsHandler) fail(c *gin.Context, err error) {
	var validationErrors *validation.Errors
	switch {
	case errors.As(err, &validationErrors):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.ErrorResponse{
			Message: "The given data was invalid.",
			Errors:  validationErrors.Fields,
		})
	case errors.Is(err, contacts.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Message: "This action is unauthorized."})
	case errors.Is(err, contacts.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, api.ErrorResponse{Message: "contact not found"})
	default:
		logger.FromContext(c.Request.Context()).Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
	}
}

// parseID returns the numeric id parameter of the request URL. If it is not a number, the
// request is answered with NOT FOUND.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, api.ErrorResponse{Message: "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// bindInput reads form values for form submissions and JSON for everything else.
func bindInput(c *gin.Context, input *api.ContactInput) error {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return c.ShouldBindWith(input, binding.Form)
	default:
		return c.ShouldBindJSON(input)
	}
}

// accessLog formats a request like gin's default logger, with the api_token URL parameter
// redacted.
func accessLog(param gin.LogFormatterParams) string {
	if param.Latency > time.Minute {
		param.Latency = param.Latency.Truncate(time.Second)
	}
	return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
		param.TimeStamp.Format("2006/01/02 - 15:04:05"),
		param.StatusCode,
		param.Latency,
		param.ClientIP,
		param.Method,
		redactToken(param.Path),
		param.ErrorMessage,
	)
}

// redactToken replaces the value of the api_token parameter in a path with query string.
func redactToken(path string) string {
	base, rawQuery, found := strings.Cut(path, "?")
	if !found {
		return path
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return base
	}
	if !query.Has("api_token") {
		return path
	}
	query.Set("api_token", "REDACTED")
	return base + "?" + query.Encode()
}

func pageLink(page int) string {
	return fmt.Sprintf("/contacts?page=%d", page)
}

func toEnvelope(contact model.Contact) api.ContactEnvelope {
	return api.ContactEnvelope{
		Data:  toResource(contact),
		Links: api.Links{Self: contact.Path()},
	}
}

func toResources(contacts []model.Contact) []api.Contact {
	resources := make([]api.Contact, 0, len(contacts))
	for _, contact := range contacts {
		resources = append(resources, toResource(contact))
	}
	return resources
}

func toResource(contact model.Contact) api.Contact {
	return api.Contact{
		ContactId:   contact.Id,
		Name:        contact.Name,
		Email:       contact.Email,
		Birthday:    contact.Birthday.Format(birthdayLayout),
		Company:     contact.Company,
		LastUpdated: humanize.Time(contact.UpdatedAt),
	}
}
