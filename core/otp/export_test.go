package otp

const MaxAttempts = maxAttempts
