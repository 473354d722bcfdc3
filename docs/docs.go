// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Вход администратора",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginInput"}}],
                "responses": {"200": {"description": "JWT"}, "401": {"description": "Неверные учётные данные"}}
            }
        },
        "/tournaments": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Список турниров",
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"}
                ],
                "responses": {"200": {"description": "Страница списка"}}
            },
            "post": {
                "tags": ["tournaments"],
                "summary": "Создать турнир",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StartTournamentInput"}}],
                "responses": {"201": {"description": "Турнир создан"}, "400": {"description": "Ошибка валидации"}}
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Получить турнир и таблицу",
                "parameters": [{"in": "path", "name": "tournamentID", "type": "integer", "required": true}],
                "responses": {"200": {"description": "Турнир"}, "404": {"description": "Не найден"}}
            },
            "delete": {
                "tags": ["tournaments"],
                "summary": "Удалить турнир",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "tournamentID", "type": "integer", "required": true}],
                "responses": {"204": {"description": "Удалён"}, "404": {"description": "Не найден"}}
            }
        },
        "/tournaments/{tournamentID}/archive": {
            "post": {
                "tags": ["tournaments"],
                "summary": "Сохранить снимок турнира",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "tournamentID", "type": "integer", "required": true}],
                "responses": {"200": {"description": "Ссылка на снимок"}, "503": {"description": "Хранилище не настроено"}}
            }
        },
        "/tournaments/{tournamentID}/matches/{index}/score": {
            "put": {
                "tags": ["matches"],
                "summary": "Записать счёт матча группы",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "tournamentID", "type": "integer", "required": true},
                    {"in": "path", "name": "index", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreInput"}}
                ],
                "responses": {"200": {"description": "Таблица"}, "400": {"description": "Неверный счёт"}}
            },
            "delete": {
                "tags": ["matches"],
                "summary": "Удалить счёт матча группы",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "tournamentID", "type": "integer", "required": true},
                    {"in": "path", "name": "index", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "Таблица"}}
            }
        },
        "/tournaments/{tournamentID}/knockout": {
            "get": {
                "tags": ["knockout"],
                "summary": "Сетка плей-офф",
                "parameters": [{"in": "path", "name": "tournamentID", "type": "integer", "required": true}],
                "responses": {"200": {"description": "Сетка"}, "409": {"description": "Меньше 4 игроков"}}
            }
        },
        "/tournaments/{tournamentID}/knockout/{stage}/{index}/score": {
            "put": {
                "tags": ["knockout"],
                "summary": "Записать счёт матча плей-офф",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "tournamentID", "type": "integer", "required": true},
                    {"in": "path", "name": "stage", "type": "string", "enum": ["playins", "qfs", "sfs", "final"], "required": true},
                    {"in": "path", "name": "index", "type": "integer", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreInput"}}
                ],
                "responses": {"200": {"description": "Сетка"}, "409": {"description": "Участники не определены"}}
            },
            "delete": {
                "tags": ["knockout"],
                "summary": "Удалить счёт матча плей-офф",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "tournamentID", "type": "integer", "required": true},
                    {"in": "path", "name": "stage", "type": "string", "required": true},
                    {"in": "path", "name": "index", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "Сетка"}}
            }
        }
    },
    "definitions": {
        "LoginInput": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "StartTournamentInput": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "players": {"type": "array", "items": {"type": "string"}}}
        },
        "ScoreInput": {
            "type": "object",
            "properties": {"score1": {"type": "integer", "minimum": 0}, "score2": {"type": "integer", "minimum": 0}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "groupcup API",
	Description:      "Group stage and knockout tournament service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
