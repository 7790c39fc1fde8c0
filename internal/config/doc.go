// Package config loads and validates vitedge.json project configuration.
//
// A minimal vitedge.json:
//
//	{
//	  "name": "my-app",
//	  "functionsDir": "functions",
//	  "dev": {
//	    "port": 3000,
//	    "viteUrl": "http://localhost:5173"
//	  }
//	}
//
// All fields are optional; missing values fall back to defaults.
package config
