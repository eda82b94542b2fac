package main

// @title           Croptrack API
// @version         1.0
// @description     Farm record keeping: farms, crops, irrigation schedules and weather.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	Execute()
}
