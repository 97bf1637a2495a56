// Command sheeets serves conference side events from a published
// spreadsheet.
//
// @title						sheeets API
// @version					1.0
// @description				Conference side events: public queries served from the event cache, and authenticated itinerary, friends, RSVP and recommendation endpoints.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Session token or API key: Bearer <token>
package main

func main() {
	Execute()
}
