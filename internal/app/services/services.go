package services

// Services defined in this package:
// - AuthService: login, student self-registration, session revocation
// - UserService: managed account creation and user administration
// - CourseService: course lifecycle and roster membership
// - LogService: activity log entries
