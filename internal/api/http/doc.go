// Package http exposes the calculator over gin.
//
// Path routes (/calc/<op>/:op_1[/:op_2]) answer in plain text: the result on
// success, the error message with 400 on any failure. /calc/execute accepts
// JSON and answers in JSON.
package http
