package main

import (
	"dtix/src/boot"
	"dtix/src/config"
	"dtix/src/middlewares"
	"dtix/src/types"
	"errors"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"

	"dtix/src/lib"
)

const (
	apiPrefix string = "/api/v1"
)

var bookableDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return !time.Now().After(datetime)
}

var gtdate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.TIME_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return !fielddatetime.After(datetime)
}

var ltdate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.TIME_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return !datetime.After(fielddatetime)
}

var venueTypeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch types.VenueType(value) {
	case types.VENUE_STADIUM, types.VENUE_THEATER, types.VENUE_ARENA,
		types.VENUE_CONVENTION, types.VENUE_CLUB, types.VENUE_OUTDOOR_SPACE,
		types.VENUE_OTHER:
		return true
	}
	return false
}

var venueStatusValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch types.VenueStatus(value) {
	case types.VENUE_UNUSED, types.VENUE_IN_USE, types.VENUE_MAINTENANCE,
		types.VENUE_INACTIVE, types.VENUE_TEMP_CLOSED:
		return true
	}
	return false
}

var eventStatusValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch types.EventStatus(value) {
	case types.EVENT_UPCOMING, types.EVENT_ON_SALE, types.EVENT_SOLD_OUT,
		types.EVENT_COMPLETED, types.EVENT_CANCELLED, types.EVENT_POSTPONED:
		return true
	}
	return false
}

var pricingStrategyValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch types.PricingStrategy(value) {
	case types.PRICING_FIXED, types.PRICING_TIERED, types.PRICING_DYNAMIC:
		return true
	}
	return false
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", bookableDateValidatorFunc)
		v.RegisterValidation("gtdate", gtdate)
		v.RegisterValidation("ltdate", ltdate)
		v.RegisterValidation("venuetype", venueTypeValidatorFunc)
		v.RegisterValidation("venuestatus", venueStatusValidatorFunc)
		v.RegisterValidation("eventstatus", eventStatusValidatorFunc)
		v.RegisterValidation("pricingstrategy", pricingStrategyValidatorFunc)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err == nil && atoi {
			err := errors.New("server is under maintenance")
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func guestRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest = authHandlers(guest)
	return guest
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}

	boot.InitDb()
	boot.InitScheduler()
	go boot.InitBroker()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	registerValidators()

	router = maintenanceModeMiddleware(router)

	guestRoutes(router)

	// Public marketplace browsing and event discovery.
	public := apiv1Group(router)
	public.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = accountHandlers(authorized)
		authorized = venueHandlers(authorized)
		authorized = eventHandlers(authorized)
		authorized = ticketTypeHandlers(authorized)
		authorized = seatHandlers(authorized)
		authorized = ticketHandlers(authorized)
		authorized = marketplaceHandlers(authorized)
		authorized = earningsHandlers(authorized)
	}

	admin := router.Group(apiPrefix)
	admin.Use(middlewares.AuthMiddleware, middlewares.AdminOnly)
	{
		admin = platformHandlers(admin)
	}

	if _, err := lib.CreateCronJob(sweepExpiredListings, time.Hour); err != nil {
		log.Printf("Error scheduling listing sweep: %s\n", err.Error())
	}

	defer boot.StopScheduler()
	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
